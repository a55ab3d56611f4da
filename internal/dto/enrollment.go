package dto

// ── 选课模块 DTO ──

// CreateEnrollmentRequest 创建选课请求
type CreateEnrollmentRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CourseID  string `json:"course_id"  binding:"required,uuid"`
}

// EnrollmentListRequest 选课列表查询参数
type EnrollmentListRequest struct {
	PaginationRequest
}

// EnrollmentResponse 选课响应
type EnrollmentResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name,omitempty"`
}
