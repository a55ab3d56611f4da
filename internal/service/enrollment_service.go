package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

var (
	ErrEnrollmentNotFound = errors.New("选课记录不存在")
	// ErrScopeDenied 记录存在但不在调用者可见范围内——区别于 404
	ErrScopeDenied = errors.New("无权访问该记录")
)

// EnrollmentService 选课业务接口
// 列表与详情按 (角色, 身份) 收窄可见行：学生只见本人、教师只见本人授课课程、
// 管理员全量；未知角色得到空集而非错误
type EnrollmentService interface {
	Create(ctx context.Context, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	List(ctx context.Context, req *dto.EnrollmentListRequest, accountID, role string) ([]dto.EnrollmentResponse, int64, error)
	GetByID(ctx context.Context, id, accountID, role string) (*dto.EnrollmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) Create(ctx context.Context, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
	}
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		s.logger.Error("创建选课记录失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("选课记录创建成功",
		zap.String("student_id", req.StudentID), zap.String("course_id", req.CourseID))
	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) List(ctx context.Context, req *dto.EnrollmentListRequest, accountID, role string) ([]dto.EnrollmentResponse, int64, error) {
	identity, err := resolveIdentity(ctx, s.repo, accountID, role)
	if err != nil {
		return nil, 0, err
	}

	enrollments, total, err := s.repo.Enrollment.List(ctx,
		authz.EnrollmentScope(identity), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询选课列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		list = append(list, *toEnrollmentResponse(&enrollments[i]))
	}
	return list, total, nil
}

// GetByID 选课详情
// 记录确实不存在 → ErrEnrollmentNotFound；存在但越权 → ErrScopeDenied
func (s *enrollmentService) GetByID(ctx context.Context, id, accountID, role string) (*dto.EnrollmentResponse, error) {
	if _, err := s.repo.Enrollment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return nil, err
	}

	identity, err := resolveIdentity(ctx, s.repo, accountID, role)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment.GetByIDScoped(ctx, id, authz.EnrollmentScope(identity))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeDenied
		}
		return nil, err
	}

	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Enrollment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	if err := s.repo.Enrollment.Delete(ctx, id); err != nil {
		s.logger.Error("删除选课记录失败", zap.Error(err))
		return err
	}
	return nil
}

func toEnrollmentResponse(enrollment *model.Enrollment) *dto.EnrollmentResponse {
	resp := &dto.EnrollmentResponse{
		ID:        enrollment.EnrollmentID,
		StudentID: enrollment.StudentID,
		CourseID:  enrollment.CourseID,
	}
	if enrollment.Student != nil {
		resp.StudentName = enrollment.Student.Name
	}
	if enrollment.Course != nil {
		resp.CourseName = enrollment.Course.Name
	}
	return resp
}
