package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/service"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Create 创建选课记录
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.enrollmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 13001, "学生不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14001, "课程不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List 选课列表（按调用者角色收窄可见范围）
// GET /api/v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	list, total, err := h.enrollmentSvc.List(c.Request.Context(), &req, userID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetByID 选课详情
// 记录存在但越权访问 → 403；记录确实不存在 → 404
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetByID(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.GetByID(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentNotFound):
			response.NotFound(c, 15001, "选课记录不存在")
		case errors.Is(err, service.ErrScopeDenied):
			response.Forbidden(c, 10003, "无权访问该记录")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除选课记录
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.enrollmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.NotFound(c, 15001, "选课记录不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
