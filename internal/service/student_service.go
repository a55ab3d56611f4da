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
	ErrStudentNotFound   = errors.New("学生不存在")
	ErrStudentEmailTaken = errors.New("该邮箱已被其他学生使用")
	ErrStudentDOBFormat  = errors.New("出生日期格式必须为 2006-01-02")
)

// cachedPage 列表缓存的载荷结构（各列表服务共用）
type cachedPage[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}

// StudentService 学生档案业务接口
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest, rawQuery string) ([]dto.StudentResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo     *repository.Repository
	cache    ListCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(cfg *config.Config, repo *repository.Repository, cache ListCache, logger *zap.Logger) StudentService {
	return &studentService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cfg.Cache.TTL,
		logger:   logger,
	}
}

// List 学生列表（读穿缓存）
// 缓存键含完整查询串，命中时不触数据库；缓存异常时透明回源
func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest, rawQuery string) ([]dto.StudentResponse, int64, error) {
	resource := string(authz.ResourceStudent)

	if payload, ok := s.cache.GetList(ctx, resource, rawQuery); ok {
		var page cachedPage[dto.StudentResponse]
		if err := json.Unmarshal([]byte(payload), &page); err == nil {
			return page.List, page.Total, nil
		}
		// 缓存内容损坏按未命中处理
		s.logger.Warn("学生列表缓存内容无法解析，回源")
	}

	students, total, err := s.repo.Student.List(ctx, req.Name, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		list = append(list, *toStudentResponse(&students[i]))
	}

	if payload, err := json.Marshal(cachedPage[dto.StudentResponse]{List: list, Total: total}); err == nil {
		s.cache.SetList(ctx, resource, rawQuery, string(payload), s.cacheTTL)
	}

	return list, total, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, ErrStudentDOBFormat
		}
		student.DOB = &dob
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentEmailTaken
		}
		s.logger.Error("更新学生失败", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateResource(ctx, string(authz.ResourceStudent))
	return toStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.Error(err))
		return err
	}

	s.cache.InvalidateResource(ctx, string(authz.ResourceStudent))
	return nil
}

func toStudentResponse(student *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:               student.StudentID,
		AccountID:        student.AccountID,
		Name:             student.Name,
		Email:            student.Email,
		RegistrationDate: student.RegistrationDate.Format("2006-01-02"),
	}
	if student.DOB != nil {
		dob := student.DOB.Format("2006-01-02")
		resp.DOB = &dob
	}
	return resp
}
