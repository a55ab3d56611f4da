package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/model"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	GetOpenByStudentCourse(ctx context.Context, studentID, courseID string) (*model.Attendance, error)
	Update(ctx context.Context, attendance *model.Attendance) error
	List(ctx context.Context, offset, limit int) ([]model.Attendance, int64, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

// GetOpenByStudentCourse 查找该学生在该课程下最近一条待确认记录（status=absent）
func (r *attendanceRepo) GetOpenByStudentCourse(ctx context.Context, studentID, courseID string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND status = ?",
			studentID, courseID, model.AttendanceAbsent).
		Order("date DESC, created_at DESC").
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepo) Update(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}

func (r *attendanceRepo) List(ctx context.Context, offset, limit int) ([]model.Attendance, int64, error) {
	var attendances []model.Attendance
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attendance{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Student").
		Preload("Course").
		Offset(offset).Limit(limit).
		Order("date DESC, attendance_id").
		Find(&attendances).Error; err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// CountByDate 统计某日考勤记录条数（日报用）
func (r *attendanceRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
