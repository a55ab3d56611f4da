package dto

// ── 成绩模块 DTO ──

// CreateGradeRequest 创建成绩请求
type CreateGradeRequest struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	CourseID  string  `json:"course_id"  binding:"required,uuid"`
	Score     float64 `json:"score"      binding:"min=0,max=100"`
}

// UpdateGradeRequest 更新成绩请求
type UpdateGradeRequest struct {
	Score float64 `json:"score" binding:"min=0,max=100"`
}

// GradeListRequest 成绩列表查询参数
type GradeListRequest struct {
	PaginationRequest
}

// GradeResponse 成绩响应
type GradeResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name,omitempty"`
	CourseID    string  `json:"course_id"`
	CourseName  string  `json:"course_name,omitempty"`
	TeacherID   string  `json:"teacher_id"`
	Score       float64 `json:"score"`
	Date        string  `json:"date"`
}
