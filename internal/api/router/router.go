package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/config"
	"github.com/justkurama/django2024-tsis2/internal/api/handler"
	"github.com/justkurama/django2024-tsis2/internal/api/middleware"
	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/repository"
	"github.com/justkurama/django2024-tsis2/pkg/jwt"
	"github.com/justkurama/django2024-tsis2/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.AccessLog(repo.Analytics, logger))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
		}

		// 课程浏览（公开；携带合法 Token 时记浏览日志）
		public := v1.Group("")
		public.Use(middleware.OptionalJWTAuth(jwtMgr))
		{
			public.GET("/courses", h.Course.List)
			public.GET("/courses/:id", h.Course.GetByID)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 账号管理模块
			authorized.PUT("/users/role",
				middleware.Require(authz.ResourceAccountRole, authz.ActionUpdate), h.Account.AssignRole)

			// 学生档案模块
			students := authorized.Group("/students")
			{
				students.GET("", middleware.Require(authz.ResourceStudent, authz.ActionList), h.Student.List)
				students.GET("/:id", middleware.Require(authz.ResourceStudent, authz.ActionRead), h.Student.GetByID)
				students.PUT("/:id", middleware.Require(authz.ResourceStudent, authz.ActionUpdate), h.Student.Update)
				students.DELETE("/:id", middleware.Require(authz.ResourceStudent, authz.ActionDelete), h.Student.Delete)
			}

			// 课程管理（写操作）
			courses := authorized.Group("/courses")
			{
				courses.POST("", middleware.Require(authz.ResourceCourse, authz.ActionCreate), h.Course.Create)
				courses.PUT("/:id", middleware.Require(authz.ResourceCourse, authz.ActionUpdate), h.Course.Update)
				courses.DELETE("/:id", middleware.Require(authz.ResourceCourse, authz.ActionDelete), h.Course.Delete)
			}

			// 选课模块
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.GET("", middleware.Require(authz.ResourceEnrollment, authz.ActionList), h.Enrollment.List)
				enrollments.GET("/:id", middleware.Require(authz.ResourceEnrollment, authz.ActionRead), h.Enrollment.GetByID)
				enrollments.POST("", middleware.Require(authz.ResourceEnrollment, authz.ActionCreate), h.Enrollment.Create)
				enrollments.DELETE("/:id", middleware.Require(authz.ResourceEnrollment, authz.ActionDelete), h.Enrollment.Delete)
			}

			// 成绩模块
			grades := authorized.Group("/grades")
			{
				grades.GET("", middleware.Require(authz.ResourceGrade, authz.ActionList), h.Grade.List)
				grades.GET("/:id", middleware.Require(authz.ResourceGrade, authz.ActionRead), h.Grade.GetByID)
				grades.POST("", middleware.Require(authz.ResourceGrade, authz.ActionCreate), h.Grade.Create)
				grades.PUT("/:id", middleware.Require(authz.ResourceGrade, authz.ActionUpdate), h.Grade.Update)
				grades.DELETE("/:id", middleware.Require(authz.ResourceGrade, authz.ActionDelete), h.Grade.Delete)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("", middleware.Require(authz.ResourceAttendance, authz.ActionList), h.Attendance.List)
				attendance.POST("", middleware.Require(authz.ResourceAttendance, authz.ActionCreate), h.Attendance.Create)
				attendance.POST("/mark", middleware.Require(authz.ResourceAttendance, authz.ActionMark), h.Attendance.Mark)
			}

			// 访问分析模块
			analytics := authorized.Group("/analytics")
			analytics.Use(middleware.Require(authz.ResourceAnalytics, authz.ActionRead))
			{
				analytics.GET("/api-usage", h.Analytics.APIUsage)
				analytics.GET("/course-popularity", h.Analytics.CoursePopularity)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/grades", middleware.Require(authz.ResourceExport, authz.ActionRead), h.Export.GradeReport)
			}
		}
	}

	return r
}
