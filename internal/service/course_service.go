package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/config"
	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

var (
	ErrCourseNotFound       = errors.New("课程不存在")
	ErrInstructorNotFound   = errors.New("授课教师账号不存在")
	ErrInstructorNotTeacher = errors.New("授课教师必须是 teacher 角色账号")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest, rawQuery string) ([]dto.CourseResponse, int64, error)
	// GetByID 获取课程详情；viewerAccountID 非空时记一条课程浏览日志
	GetByID(ctx context.Context, id, viewerAccountID string) (*dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo     *repository.Repository
	cache    ListCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(cfg *config.Config, repo *repository.Repository, cache ListCache, logger *zap.Logger) CourseService {
	return &courseService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cfg.Cache.TTL,
		logger:   logger,
	}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	course := &model.Course{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: req.InstructorID,
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateResource(ctx, string(authz.ResourceCourse))
	s.logger.Info("课程创建成功", zap.String("course_id", course.CourseID), zap.String("name", course.Name))
	return toCourseResponse(course), nil
}

// List 课程列表（读穿缓存，匿名可访问）
func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest, rawQuery string) ([]dto.CourseResponse, int64, error) {
	resource := string(authz.ResourceCourse)

	if payload, ok := s.cache.GetList(ctx, resource, rawQuery); ok {
		var page cachedPage[dto.CourseResponse]
		if err := json.Unmarshal([]byte(payload), &page); err == nil {
			return page.List, page.Total, nil
		}
		s.logger.Warn("课程列表缓存内容无法解析，回源")
	}

	courses, total, err := s.repo.Course.List(ctx, req.Name, req.Description, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, *toCourseResponse(&courses[i]))
	}

	if payload, err := json.Marshal(cachedPage[dto.CourseResponse]{List: list, Total: total}); err == nil {
		s.cache.SetList(ctx, resource, rawQuery, string(payload), s.cacheTTL)
	}

	return list, total, nil
}

func (s *courseService) GetByID(ctx context.Context, id, viewerAccountID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	// 认证用户的课程详情访问记入浏览日志；日志失败不影响读
	if viewerAccountID != "" {
		viewer := viewerAccountID
		if err := s.repo.Analytics.InsertCourseViewLog(ctx, &model.CourseViewLog{
			AccountID: &viewer,
			CourseID:  course.CourseID,
			Timestamp: time.Now(),
		}); err != nil {
			s.logger.Warn("写课程浏览日志失败", zap.Error(err))
		}
	}

	return toCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.InstructorID != nil {
		if err := s.checkInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
		course.InstructorID = *req.InstructorID
		course.Instructor = nil
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateResource(ctx, string(authz.ResourceCourse))
	return toCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.Error(err))
		return err
	}

	s.cache.InvalidateResource(ctx, string(authz.ResourceCourse))
	return nil
}

// checkInstructor 校验授课教师账号存在且为 teacher 角色
func (s *courseService) checkInstructor(ctx context.Context, instructorID string) error {
	instructor, err := s.repo.Account.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}
	if instructor.Role != model.RoleTeacher {
		return ErrInstructorNotTeacher
	}
	return nil
}

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:           course.CourseID,
		Name:         course.Name,
		Description:  course.Description,
		InstructorID: course.InstructorID,
	}
	if course.Instructor != nil {
		resp.InstructorName = course.Instructor.Username
	}
	return resp
}
