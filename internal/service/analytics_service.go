package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

const topN = 5

// AnalyticsService 访问分析业务接口
type AnalyticsService interface {
	APIUsage(ctx context.Context) (*dto.APIUsageResponse, error)
	CoursePopularity(ctx context.Context) (*dto.CoursePopularityResponse, error)
}

type analyticsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(repo *repository.Repository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

func (s *analyticsService) APIUsage(ctx context.Context) (*dto.APIUsageResponse, error) {
	total, err := s.repo.Analytics.CountRequests(ctx)
	if err != nil {
		s.logger.Error("统计请求总量失败", zap.Error(err))
		return nil, err
	}

	perUser, err := s.repo.Analytics.RequestsPerUser(ctx)
	if err != nil {
		s.logger.Error("统计用户请求量失败", zap.Error(err))
		return nil, err
	}

	uniqueUsers, err := s.repo.Analytics.CountActiveUsers(ctx)
	if err != nil {
		s.logger.Error("统计活跃用户数失败", zap.Error(err))
		return nil, err
	}

	mostActive := perUser
	if len(mostActive) > topN {
		mostActive = mostActive[:topN]
	}

	// 无活跃用户时均值为 0，避免除零
	var avg float64
	if uniqueUsers > 0 {
		avg = float64(total) / float64(uniqueUsers)
	}

	return &dto.APIUsageResponse{
		TotalRequests:      total,
		RequestsPerUser:    perUser,
		MostActiveUsers:    mostActive,
		UniqueUsers:        uniqueUsers,
		AvgRequestsPerUser: avg,
	}, nil
}

func (s *analyticsService) CoursePopularity(ctx context.Context) (*dto.CoursePopularityResponse, error) {
	most, err := s.repo.Analytics.CourseViewCounts(ctx, false, topN)
	if err != nil {
		s.logger.Error("统计课程浏览量失败", zap.Error(err))
		return nil, err
	}

	least, err := s.repo.Analytics.CourseViewCounts(ctx, true, topN)
	if err != nil {
		s.logger.Error("统计课程浏览量失败", zap.Error(err))
		return nil, err
	}

	return &dto.CoursePopularityResponse{
		MostViewedCourses:  most,
		LeastViewedCourses: least,
	}, nil
}
