package dto

// ── 学生模块 DTO ──

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	Name string `form:"name" binding:"omitempty,max=255"`
}

// UpdateStudentRequest 更新学生档案请求
type UpdateStudentRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	DOB   *string `json:"dob"   binding:"omitempty,datetime=2006-01-02"`
}

// StudentResponse 学生档案响应
type StudentResponse struct {
	ID               string  `json:"id"`
	AccountID        string  `json:"account_id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	DOB              *string `json:"dob,omitempty"`
	RegistrationDate string  `json:"registration_date"`
}
