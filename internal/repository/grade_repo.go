package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/model"
)

// GradeRepository 成绩数据访问接口
type GradeRepository interface {
	Create(ctx context.Context, grade *model.Grade) error
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	GetByStudentCourse(ctx context.Context, studentID, courseID string) (*model.Grade, error)
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope authz.DBScope, offset, limit int) ([]model.Grade, int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
}

// gradeRepo GradeRepository 的 GORM 实现
type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("grades.grade_id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) GetByStudentCourse(ctx context.Context, studentID, courseID string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.Grade{}).Error
}

func (r *gradeRepo) List(ctx context.Context, scope authz.DBScope, offset, limit int) ([]model.Grade, int64, error) {
	var grades []model.Grade
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Grade{}).Scopes(scope)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Student").
		Preload("Course").
		Offset(offset).Limit(limit).
		Order("grades.date DESC, grades.grade_id").
		Find(&grades).Error; err != nil {
		return nil, 0, err
	}

	return grades, total, nil
}

// ListByStudent 某学生的全部成绩（周报摘要用）
func (r *gradeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error) {
	var grades []model.Grade
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("date, grade_id").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

// ListByCourse 某课程的全部成绩（成绩单导出用）
func (r *gradeRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error) {
	var grades []model.Grade
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("date, grade_id").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

// CountByDate 统计某日写入的成绩条数（日报用）
func (r *gradeRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
