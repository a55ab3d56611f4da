package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name         string `json:"name"          binding:"required,min=1,max=255"`
	Description  string `json:"description"   binding:"omitempty"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"   binding:"omitempty"`
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
}

// CourseListRequest 课程列表查询参数（name/description 模糊过滤）
type CourseListRequest struct {
	PaginationRequest
	Name        string `form:"name"        binding:"omitempty,max=255"`
	Description string `form:"description" binding:"omitempty,max=255"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	InstructorID   string `json:"instructor_id"`
	InstructorName string `json:"instructor_name,omitempty"`
}
