package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/service"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// AnalyticsHandler 访问分析模块 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// APIUsage API 使用概况
// GET /api/v1/analytics/api-usage
func (h *AnalyticsHandler) APIUsage(c *gin.Context) {
	result, err := h.analyticsSvc.APIUsage(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// CoursePopularity 课程热度概况
// GET /api/v1/analytics/course-popularity
func (h *AnalyticsHandler) CoursePopularity(c *gin.Context) {
	result, err := h.analyticsSvc.CoursePopularity(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
