package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/config"
	"github.com/justkurama/django2024-tsis2/internal/repository"
	"github.com/justkurama/django2024-tsis2/pkg/mailer"
)

// Handler 通知任务处理器（Worker 进程内执行）
// 邮件发送失败：记日志、累加软失败计数后返回 nil——失败从不重试、
// 从不传播回触发请求
type Handler struct {
	repo     *repository.Repository
	mailer   mailer.Mailer
	enqueuer Enqueuer // 周报派发任务再入队单学生任务
	operator string   // 日报收件箱
	logger   *zap.Logger

	softFailures atomic.Int64
}

// NewHandler 创建任务处理器
func NewHandler(
	cfg *config.MailConfig,
	repo *repository.Repository,
	m mailer.Mailer,
	enqueuer Enqueuer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		repo:     repo,
		mailer:   m,
		enqueuer: enqueuer,
		operator: cfg.OperatorEmail,
		logger:   logger,
	}
}

// Register 将全部任务类型挂到 asynq 路由
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAttendanceReminder, h.HandleAttendanceReminder)
	mux.HandleFunc(TypeGradeUpdate, h.HandleGradeUpdate)
	mux.HandleFunc(TypeDailyReport, h.HandleDailyReport)
	mux.HandleFunc(TypeWeeklyFanout, h.HandleWeeklyFanout)
	mux.HandleFunc(TypeWeeklyDigest, h.HandleWeeklyDigest)
}

// SoftFailures 累计的发送软失败次数
func (h *Handler) SoftFailures() int64 {
	return h.softFailures.Load()
}

// send 发送一封邮件；失败按软失败吸收
func (h *Handler) send(ctx context.Context, msg *mailer.Message, taskType string) {
	if err := h.mailer.Send(ctx, msg); err != nil {
		h.softFailures.Add(1)
		h.logger.Error("邮件发送失败（软失败，不重试）",
			zap.String("task", taskType),
			zap.String("to", msg.ToAddress),
			zap.Error(err),
		)
	}
}

// HandleAttendanceReminder 考勤提醒
func (h *Handler) HandleAttendanceReminder(ctx context.Context, t *asynq.Task) error {
	var p AttendanceReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("解析考勤提醒载荷失败: %w", err)
	}

	h.send(ctx, &mailer.Message{
		ToName:    p.StudentName,
		ToAddress: p.StudentEmail,
		Subject:   "Daily Attendance Reminder",
		Body: fmt.Sprintf(
			"Dear %s,\n\nYou have not marked your attendance for today. Please log in and mark your attendance now.",
			p.StudentName),
	}, TypeAttendanceReminder)
	return nil
}

// HandleGradeUpdate 成绩更新通知
func (h *Handler) HandleGradeUpdate(ctx context.Context, t *asynq.Task) error {
	var p GradeUpdatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("解析成绩通知载荷失败: %w", err)
	}

	student, err := h.repo.Student.GetByID(ctx, p.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 学生在任务执行前被删除，静默丢弃
			h.logger.Warn("成绩通知：学生不存在", zap.String("student_id", p.StudentID))
			return nil
		}
		return err
	}

	h.send(ctx, &mailer.Message{
		ToName:    student.Name,
		ToAddress: student.Email,
		Subject:   "Grade Update Notification",
		Body: fmt.Sprintf("Your grade for %s has been updated to %.2f.",
			p.CourseName, p.Score),
	}, TypeGradeUpdate)
	return nil
}

// HandleDailyReport 当日考勤/成绩写入量日报（发运维邮箱）
func (h *Handler) HandleDailyReport(ctx context.Context, _ *asynq.Task) error {
	today := time.Now()

	attendanceCount, err := h.repo.Attendance.CountByDate(ctx, today)
	if err != nil {
		return fmt.Errorf("统计当日考勤失败: %w", err)
	}
	gradeCount, err := h.repo.Grade.CountByDate(ctx, today)
	if err != nil {
		return fmt.Errorf("统计当日成绩失败: %w", err)
	}

	h.send(ctx, &mailer.Message{
		ToAddress: h.operator,
		Subject:   "Daily Report",
		Body: fmt.Sprintf("Today's Attendance: %d\nGrades Updated: %d",
			attendanceCount, gradeCount),
	}, TypeDailyReport)
	return nil
}

// HandleWeeklyFanout 周报派发：每个学生一个独立任务
func (h *Handler) HandleWeeklyFanout(ctx context.Context, _ *asynq.Task) error {
	students, err := h.repo.Student.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("查询学生列表失败: %w", err)
	}

	enqueued := 0
	for _, s := range students {
		t, err := NewWeeklyDigestTask(s.StudentID)
		if err != nil {
			h.logger.Error("构造周报任务失败", zap.String("student_id", s.StudentID), zap.Error(err))
			continue
		}
		if err := h.enqueuer.Enqueue(ctx, t); err != nil {
			h.logger.Error("周报任务入队失败", zap.String("student_id", s.StudentID), zap.Error(err))
			continue
		}
		enqueued++
	}

	h.logger.Info("周报派发完成",
		zap.Int("students", len(students)), zap.Int("enqueued", enqueued))
	return nil
}

// HandleWeeklyDigest 单个学生的成绩周报
func (h *Handler) HandleWeeklyDigest(ctx context.Context, t *asynq.Task) error {
	var p WeeklyDigestPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("解析周报载荷失败: %w", err)
	}

	student, err := h.repo.Student.GetByID(ctx, p.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("周报：学生不存在", zap.String("student_id", p.StudentID))
			return nil
		}
		return err
	}

	grades, err := h.repo.Grade.ListByStudent(ctx, p.StudentID)
	if err != nil {
		return fmt.Errorf("查询学生成绩失败: %w", err)
	}

	var b strings.Builder
	b.WriteString("Weekly Performance Summary:\n\n")
	for _, g := range grades {
		courseName := g.CourseID
		if g.Course != nil {
			courseName = g.Course.Name
		}
		fmt.Fprintf(&b, "%s: %.2f\n", courseName, g.Score)
	}

	h.send(ctx, &mailer.Message{
		ToName:    student.Name,
		ToAddress: student.Email,
		Subject:   "Weekly Performance Summary",
		Body:      b.String(),
	}, TypeWeeklyDigest)
	return nil
}
