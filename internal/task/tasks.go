// Package task 定义通知派发的任务类型与载荷。
// 所有任务均为"即发即忘"：入队后无结果回传，发送失败不重试（MaxRetry=0），
// 由 Worker 记日志吸收。
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/justkurama/django2024-tsis2/config"
)

// ── 任务类型 ──

const (
	TypeAttendanceReminder = "notify:attendance_reminder" // 考勤开放 → 提醒学生
	TypeGradeUpdate        = "notify:grade_update"        // 成绩更新 → 通知学生
	TypeDailyReport        = "report:daily"               // 定时：当日写入量日报
	TypeWeeklyFanout       = "report:weekly_fanout"       // 定时：逐学生派发周报
	TypeWeeklyDigest       = "report:weekly_digest"       // 单个学生的成绩周报
)

// ── 载荷 ──

// AttendanceReminderPayload 考勤提醒载荷
type AttendanceReminderPayload struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// GradeUpdatePayload 成绩更新通知载荷
type GradeUpdatePayload struct {
	StudentID  string  `json:"student_id"`
	CourseName string  `json:"course_name"`
	Score      float64 `json:"score"`
}

// WeeklyDigestPayload 学生周报载荷
type WeeklyDigestPayload struct {
	StudentID string `json:"student_id"`
}

// ── 任务构造 ──

// NewAttendanceReminderTask 构造考勤提醒任务
func NewAttendanceReminderTask(studentName, studentEmail string) (*asynq.Task, error) {
	payload, err := json.Marshal(AttendanceReminderPayload{
		StudentName:  studentName,
		StudentEmail: studentEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化考勤提醒载荷失败: %w", err)
	}
	return asynq.NewTask(TypeAttendanceReminder, payload), nil
}

// NewGradeUpdateTask 构造成绩更新通知任务
func NewGradeUpdateTask(studentID, courseName string, score float64) (*asynq.Task, error) {
	payload, err := json.Marshal(GradeUpdatePayload{
		StudentID:  studentID,
		CourseName: courseName,
		Score:      score,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化成绩通知载荷失败: %w", err)
	}
	return asynq.NewTask(TypeGradeUpdate, payload), nil
}

// NewDailyReportTask 构造日报任务（无载荷）
func NewDailyReportTask() *asynq.Task {
	return asynq.NewTask(TypeDailyReport, nil)
}

// NewWeeklyFanoutTask 构造周报派发任务（无载荷）
func NewWeeklyFanoutTask() *asynq.Task {
	return asynq.NewTask(TypeWeeklyFanout, nil)
}

// NewWeeklyDigestTask 构造单个学生的周报任务
func NewWeeklyDigestTask(studentID string) (*asynq.Task, error) {
	payload, err := json.Marshal(WeeklyDigestPayload{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("序列化周报载荷失败: %w", err)
	}
	return asynq.NewTask(TypeWeeklyDigest, payload), nil
}

// ── 入队 ──

// Enqueuer Service 层触发后台任务的入口
// 单测里以内存实现替换，统计入队次数
type Enqueuer interface {
	Enqueue(ctx context.Context, t *asynq.Task) error
}

// Client asynq 客户端包装
type Client struct {
	client *asynq.Client
}

var _ Enqueuer = (*Client)(nil)

// RedisOpt 由 Redis 配置生成 asynq 连接参数（队列使用独立 DB）
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.QueueDB,
	}
}

// Location 解析调度时区，空值回退 UTC
func Location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// NewClient 创建任务队列客户端
func NewClient(cfg *config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

// Enqueue 任务入队，不自动重试
func (c *Client) Enqueue(ctx context.Context, t *asynq.Task) error {
	_, err := c.client.EnqueueContext(ctx, t, asynq.MaxRetry(0))
	return err
}

// Close 关闭队列连接
func (c *Client) Close() error {
	return c.client.Close()
}
