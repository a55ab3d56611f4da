package dto

// ── 考勤模块 DTO ──

// CreateAttendanceRequest 开放考勤记录请求（教职工）
type CreateAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CourseID  string `json:"course_id"  binding:"required,uuid"`
}

// MarkAttendanceRequest 学生确认本人考勤请求
type MarkAttendanceRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// AttendanceListRequest 考勤列表查询参数
type AttendanceListRequest struct {
	PaginationRequest
}

// AttendanceResponse 考勤响应
type AttendanceResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name,omitempty"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}
