package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/model"
)

// UserRequestCount 按账号聚合的请求量
type UserRequestCount struct {
	Username string `json:"username"` // 匿名请求聚合为空串
	Count    int64  `json:"count"`
}

// CourseViewCount 按课程聚合的浏览量
type CourseViewCount struct {
	CourseName string `json:"course_name"`
	Count      int64  `json:"count"`
}

// AnalyticsRepository 访问日志读写接口
// 两张日志表只插入从不更新；聚合查询均为纯读
type AnalyticsRepository interface {
	InsertRequestLog(ctx context.Context, log *model.ApiRequestLog) error
	InsertCourseViewLog(ctx context.Context, log *model.CourseViewLog) error

	CountRequests(ctx context.Context) (int64, error)
	RequestsPerUser(ctx context.Context) ([]UserRequestCount, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	CourseViewCounts(ctx context.Context, ascending bool, limit int) ([]CourseViewCount, error)
}

// analyticsRepo AnalyticsRepository 的 GORM 实现
type analyticsRepo struct {
	db *gorm.DB
}

// NewAnalyticsRepo 创建 AnalyticsRepository 实例
func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) InsertRequestLog(ctx context.Context, log *model.ApiRequestLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *analyticsRepo) InsertCourseViewLog(ctx context.Context, log *model.CourseViewLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *analyticsRepo) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ApiRequestLog{}).
		Count(&count).Error
	return count, err
}

// RequestsPerUser 各账号请求量，按量降序；并列时按用户名保证稳定顺序
func (r *analyticsRepo) RequestsPerUser(ctx context.Context) ([]UserRequestCount, error) {
	var rows []UserRequestCount
	err := r.db.WithContext(ctx).
		Model(&model.ApiRequestLog{}).
		Select("COALESCE(accounts.username, '') AS username, COUNT(*) AS count").
		Joins("LEFT JOIN accounts ON accounts.account_id = api_request_logs.account_id").
		Group("accounts.username").
		Order("count DESC, username").
		Find(&rows).Error
	return rows, err
}

// CountActiveUsers 至少发起过一次请求的不同账号数（不含匿名）
func (r *analyticsRepo) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ApiRequestLog{}).
		Where("account_id IS NOT NULL").
		Distinct("account_id").
		Count(&count).Error
	return count, err
}

// CourseViewCounts 按浏览量排序的课程榜单
// ascending=false 取最热门，true 取最冷门
func (r *analyticsRepo) CourseViewCounts(ctx context.Context, ascending bool, limit int) ([]CourseViewCount, error) {
	order := "count DESC, course_name"
	if ascending {
		order = "count, course_name"
	}

	var rows []CourseViewCount
	err := r.db.WithContext(ctx).
		Model(&model.CourseViewLog{}).
		Select("courses.name AS course_name, COUNT(*) AS count").
		Joins("JOIN courses ON courses.course_id = course_view_logs.course_id").
		Group("courses.name").
		Order(order).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
