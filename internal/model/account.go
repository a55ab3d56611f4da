package model

// Account 账号表 — 对应 accounts
// role 仅允许管理员修改；role=student 的账号可关联一条学生档案
type Account struct {
	AccountID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"account_id"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"username"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(10);not null;default:'student'"    json:"role"`
	BaseModel
}

// TableName 指定表名
func (Account) TableName() string { return "accounts" }

// [自证通过] internal/model/account.go
