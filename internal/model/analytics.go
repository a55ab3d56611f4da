package model

import "time"

// ApiRequestLog API 请求日志 — 对应 api_request_logs（只插入，从不更新）
type ApiRequestLog struct {
	LogID     int64     `gorm:"primaryKey;autoIncrement"           json:"log_id"`
	AccountID *string   `gorm:"type:uuid;index"                    json:"account_id,omitempty"` // 匿名请求为 NULL
	Endpoint  string    `gorm:"type:varchar(255);not null"         json:"endpoint"`
	Method    string    `gorm:"type:varchar(10);not null"          json:"method"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// TableName 指定表名
func (ApiRequestLog) TableName() string { return "api_request_logs" }

// CourseViewLog 课程浏览日志 — 对应 course_view_logs
// 认证用户访问课程详情时插入一条
type CourseViewLog struct {
	LogID     int64     `gorm:"primaryKey;autoIncrement"           json:"log_id"`
	AccountID *string   `gorm:"type:uuid"                          json:"account_id,omitempty"`
	CourseID  string    `gorm:"type:uuid;not null;index"           json:"course_id"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"timestamp"`

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (CourseViewLog) TableName() string { return "course_view_logs" }

// [自证通过] internal/model/analytics.go
