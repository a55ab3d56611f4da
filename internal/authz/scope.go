package authz

import (
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/model"
)

// Identity 调用者身份
// StudentID 在角色为 student 时由 Service 层解析（无档案则为空）
type Identity struct {
	AccountID string
	Role      string
	StudentID string
}

// DBScope 行级可见范围，作为 gorm.DB.Scopes 参数使用
type DBScope func(*gorm.DB) *gorm.DB

// ScopeAll 不收窄
func ScopeAll(db *gorm.DB) *gorm.DB { return db }

// ScopeNone 空结果集（未知角色/匿名/学生无档案时列表返回空而非报错）
func ScopeNone(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }

// EnrollmentScope 选课记录的可见范围
//   - student: student_id = 本人档案
//   - teacher: course.instructor = 本人
//   - admin: 全部
func EnrollmentScope(id Identity) DBScope {
	switch id.Role {
	case model.RoleStudent:
		if id.StudentID == "" {
			return ScopeNone
		}
		sid := id.StudentID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("enrollments.student_id = ?", sid)
		}
	case model.RoleTeacher:
		uid := id.AccountID
		return func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN courses ON courses.course_id = enrollments.course_id").
				Where("courses.instructor_id = ?", uid)
		}
	case model.RoleAdmin:
		return ScopeAll
	}
	return ScopeNone
}

// GradeScope 成绩记录的可见范围（与 EnrollmentScope 同一契约）
func GradeScope(id Identity) DBScope {
	switch id.Role {
	case model.RoleStudent:
		if id.StudentID == "" {
			return ScopeNone
		}
		sid := id.StudentID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("grades.student_id = ?", sid)
		}
	case model.RoleTeacher:
		uid := id.AccountID
		return func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN courses ON courses.course_id = grades.course_id").
				Where("courses.instructor_id = ?", uid)
		}
	case model.RoleAdmin:
		return ScopeAll
	}
	return ScopeNone
}
