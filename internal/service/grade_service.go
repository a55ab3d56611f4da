package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
	"github.com/justkurama/django2024-tsis2/internal/task"
)

var (
	ErrGradeNotFound = errors.New("成绩记录不存在")
	ErrGradeExists   = errors.New("该学生在该课程下已有成绩，请走更新接口")
)

// GradeService 成绩业务接口
// (student, course) 至多一条成绩；更新成绩会向学生异步发送通知邮件
type GradeService interface {
	Create(ctx context.Context, req *dto.CreateGradeRequest, teacherAccountID string) (*dto.GradeResponse, error)
	List(ctx context.Context, req *dto.GradeListRequest, accountID, role string) ([]dto.GradeResponse, int64, error)
	GetByID(ctx context.Context, id, accountID, role string) (*dto.GradeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	Delete(ctx context.Context, id string) error
}

type gradeService struct {
	repo     *repository.Repository
	enqueuer task.Enqueuer
	logger   *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, enqueuer task.Enqueuer, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, enqueuer: enqueuer, logger: logger}
}

func (s *gradeService) Create(ctx context.Context, req *dto.CreateGradeRequest, teacherAccountID string) (*dto.GradeResponse, error) {
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

	// 唯一性预检，并发穿透由数据库唯一索引兜底
	if _, err := s.repo.Grade.GetByStudentCourse(ctx, req.StudentID, req.CourseID); err == nil {
		return nil, ErrGradeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	grade := &model.Grade{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		TeacherID: teacherAccountID,
		Score:     req.Score,
		Date:      time.Now(),
	}
	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGradeExists
		}
		s.logger.Error("创建成绩失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("成绩创建成功", zap.String("grade_id", grade.GradeID),
		zap.String("student_id", req.StudentID), zap.Float64("score", req.Score))
	return toGradeResponse(grade), nil
}

func (s *gradeService) List(ctx context.Context, req *dto.GradeListRequest, accountID, role string) ([]dto.GradeResponse, int64, error) {
	identity, err := resolveIdentity(ctx, s.repo, accountID, role)
	if err != nil {
		return nil, 0, err
	}

	grades, total, err := s.repo.Grade.List(ctx,
		authz.GradeScope(identity), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询成绩列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		list = append(list, *toGradeResponse(&grades[i]))
	}
	return list, total, nil
}

func (s *gradeService) GetByID(ctx context.Context, id, accountID, role string) (*dto.GradeResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	identity, err := resolveIdentity(ctx, s.repo, accountID, role)
	if err != nil {
		return nil, err
	}
	if !gradeVisible(grade, identity) {
		return nil, ErrScopeDenied
	}

	return toGradeResponse(grade), nil
}

// Update 更新分数，成功后投递一条成绩变更通知任务
// 任务投递失败只记日志，不回滚成绩更新
func (s *gradeService) Update(ctx context.Context, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	grade.Score = req.Score
	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		s.logger.Error("更新成绩失败", zap.Error(err))
		return nil, err
	}

	courseName := ""
	if grade.Course != nil {
		courseName = grade.Course.Name
	}
	t, err := task.NewGradeUpdateTask(grade.StudentID, courseName, grade.Score)
	if err != nil {
		s.logger.Error("构造成绩通知任务失败", zap.Error(err))
	} else if err := s.enqueuer.Enqueue(ctx, t); err != nil {
		s.logger.Error("投递成绩通知任务失败",
			zap.String("grade_id", grade.GradeID), zap.Error(err))
	}

	return toGradeResponse(grade), nil
}

func (s *gradeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Grade.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return err
	}

	if err := s.repo.Grade.Delete(ctx, id); err != nil {
		s.logger.Error("删除成绩失败", zap.Error(err))
		return err
	}
	return nil
}

// gradeVisible 单条成绩的可见性判定，与 authz.GradeScope 的列表语义一致
func gradeVisible(grade *model.Grade, identity authz.Identity) bool {
	switch identity.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return grade.Course != nil && grade.Course.InstructorID == identity.AccountID
	case model.RoleStudent:
		return identity.StudentID != "" && grade.StudentID == identity.StudentID
	default:
		return false
	}
}

func toGradeResponse(grade *model.Grade) *dto.GradeResponse {
	resp := &dto.GradeResponse{
		ID:        grade.GradeID,
		StudentID: grade.StudentID,
		CourseID:  grade.CourseID,
		TeacherID: grade.TeacherID,
		Score:     grade.Score,
		Date:      grade.Date.Format("2006-01-02"),
	}
	if grade.Student != nil {
		resp.StudentName = grade.Student.Name
	}
	if grade.Course != nil {
		resp.CourseName = grade.Course.Name
	}
	return resp
}
