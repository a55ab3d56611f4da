package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

// AccessLog 访问日志中间件
// 每个请求结束后异步落一条 api_request_logs，供分析接口聚合
// 落库失败只记日志，绝不影响请求本身
func AccessLog(analytics repository.AnalyticsRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		entry := &model.ApiRequestLog{
			Endpoint:  c.Request.URL.Path,
			Method:    c.Request.Method,
			Timestamp: time.Now(),
		}
		if uid, exists := c.Get("user_id"); exists {
			accountID := uid.(string)
			entry.AccountID = &accountID
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := analytics.InsertRequestLog(ctx, entry); err != nil {
				logger.Warn("写入访问日志失败", zap.Error(err))
			}
		}()
	}
}
