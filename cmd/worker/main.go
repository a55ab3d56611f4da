package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/config"
	"github.com/justkurama/django2024-tsis2/internal/repository"
	"github.com/justkurama/django2024-tsis2/internal/task"
	"github.com/justkurama/django2024-tsis2/pkg/database"
	applogger "github.com/justkurama/django2024-tsis2/pkg/logger"
	"github.com/justkurama/django2024-tsis2/pkg/mailer"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("任务进程启动中...",
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.String("mail_backend", cfg.Mail.Backend),
	)

	// 3. 连接数据库（任务处理器直接读库，不经 HTTP 层）
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	repo := repository.NewRepository(db)

	// 4. 初始化邮件后端
	m, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("初始化邮件后端失败", zap.Error(err))
	}

	// 5. 任务队列客户端（周报派发任务需要再入队）
	taskClient := task.NewClient(&cfg.Redis)
	defer taskClient.Close()

	// 6. 任务处理器与路由
	h := task.NewHandler(&cfg.Mail, repo, m, taskClient, logger)
	mux := asynq.NewServeMux()
	h.Register(mux)

	redisOpt := task.RedisOpt(&cfg.Redis)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	// 7. 周期任务调度（日报 / 周报派发）
	loc, err := task.Location(cfg.Worker.Timezone)
	if err != nil {
		logger.Fatal("解析调度时区失败", zap.Error(err))
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: loc})

	if _, err := scheduler.Register(cfg.Worker.DailyReportAt, task.NewDailyReportTask(), asynq.MaxRetry(0)); err != nil {
		logger.Fatal("注册日报调度失败", zap.Error(err))
	}
	if _, err := scheduler.Register(cfg.Worker.WeeklyDigestAt, task.NewWeeklyFanoutTask(), asynq.MaxRetry(0)); err != nil {
		logger.Fatal("注册周报调度失败", zap.Error(err))
	}

	// 8. 启动 worker 与 scheduler
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal("调度器异常退出", zap.Error(err))
		}
	}()

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Fatal("任务服务器异常退出", zap.Error(err))
		}
	}()

	logger.Info("任务进程已启动")

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	logger.Info("任务进程已关闭")
}
