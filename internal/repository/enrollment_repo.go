package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/model"
)

// EnrollmentRepository 选课记录数据访问接口
// 列表与带范围的单条查询接受 authz.DBScope 收窄可见行
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	GetByIDScoped(ctx context.Context, id string, scope authz.DBScope) (*model.Enrollment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope authz.DBScope, offset, limit int) ([]model.Enrollment, int64, error)
}

// enrollmentRepo EnrollmentRepository 的 GORM 实现
type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("enrollments.enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByIDScoped(ctx context.Context, id string, scope authz.DBScope) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Student").
		Preload("Course").
		Where("enrollments.enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.Enrollment{}).Error
}

func (r *enrollmentRepo) List(ctx context.Context, scope authz.DBScope, offset, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Enrollment{}).Scopes(scope)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Student").
		Preload("Course").
		Offset(offset).Limit(limit).
		Order("enrollments.created_at DESC, enrollments.enrollment_id").
		Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}
