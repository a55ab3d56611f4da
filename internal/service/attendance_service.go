package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
	"github.com/justkurama/django2024-tsis2/internal/task"
)

var ErrNoStudentProfile = errors.New("当前账号没有学生档案")

// AttendanceService 考勤业务接口
// 教职工 Create 一条待确认记录（status=absent）并异步提醒学生；
// 学生 Mark 确认本人考勤：有待确认记录则转 present，没有则直接新建 present
type AttendanceService interface {
	Create(ctx context.Context, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error)
	Mark(ctx context.Context, accountID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error)
}

type attendanceService struct {
	repo     *repository.Repository
	enqueuer task.Enqueuer
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, enqueuer task.Enqueuer, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, enqueuer: enqueuer, logger: logger}
}

func (s *attendanceService) Create(ctx context.Context, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, req.StudentID)
	if err != nil {
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

	attendance := &model.Attendance{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Status:    model.AttendanceAbsent,
		Date:      time.Now(),
	}
	if err := s.repo.Attendance.Create(ctx, attendance); err != nil {
		s.logger.Error("创建考勤记录失败", zap.Error(err))
		return nil, err
	}

	// 提醒任务投递失败不影响记录创建
	t, err := task.NewAttendanceReminderTask(student.Name, student.Email)
	if err != nil {
		s.logger.Error("构造考勤提醒任务失败", zap.Error(err))
	} else if err := s.enqueuer.Enqueue(ctx, t); err != nil {
		s.logger.Error("投递考勤提醒任务失败",
			zap.String("student_id", student.StudentID), zap.Error(err))
	}

	return toAttendanceResponse(attendance), nil
}

// Mark 学生本人确认考勤
// 只需提供课程 ID，学生身份取自登录账号；账号无学生档案 → ErrNoStudentProfile
func (s *attendanceService) Mark(ctx context.Context, accountID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error) {
	student, err := s.repo.Student.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoStudentProfile
		}
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	attendance, err := s.repo.Attendance.GetOpenByStudentCourse(ctx, student.StudentID, req.CourseID)
	switch {
	case err == nil:
		attendance.Status = model.AttendancePresent
		if err := s.repo.Attendance.Update(ctx, attendance); err != nil {
			s.logger.Error("确认考勤失败", zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 没有待确认记录时直接落一条 present
		attendance = &model.Attendance{
			StudentID: student.StudentID,
			CourseID:  req.CourseID,
			Status:    model.AttendancePresent,
			Date:      time.Now(),
		}
		if err := s.repo.Attendance.Create(ctx, attendance); err != nil {
			s.logger.Error("创建考勤记录失败", zap.Error(err))
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("考勤确认成功",
		zap.String("student_id", student.StudentID), zap.String("course_id", req.CourseID))
	return toAttendanceResponse(attendance), nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	attendances, total, err := s.repo.Attendance.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询考勤列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		list = append(list, *toAttendanceResponse(&attendances[i]))
	}
	return list, total, nil
}

func toAttendanceResponse(attendance *model.Attendance) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:        attendance.AttendanceID,
		StudentID: attendance.StudentID,
		CourseID:  attendance.CourseID,
		Status:    attendance.Status,
		Date:      attendance.Date.Format("2006-01-02"),
	}
	if attendance.Student != nil {
		resp.StudentName = attendance.Student.Name
	}
	if attendance.Course != nil {
		resp.CourseName = attendance.Course.Name
	}
	return resp
}
