package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/service"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// Create 录入成绩（同一学生同一课程仅一条）
// POST /api/v1/grades
func (h *GradeHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.gradeSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 13001, "学生不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14001, "课程不存在")
		case errors.Is(err, service.ErrGradeExists):
			response.Conflict(c, 16002, "该学生在该课程下已有成绩")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List 成绩列表（按调用者角色收窄可见范围）
// GET /api/v1/grades
func (h *GradeHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	list, total, err := h.gradeSvc.List(c.Request.Context(), &req, userID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetByID 成绩详情
// GET /api/v1/grades/:id
func (h *GradeHandler) GetByID(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.gradeSvc.GetByID(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradeNotFound):
			response.NotFound(c, 16001, "成绩记录不存在")
		case errors.Is(err, service.ErrScopeDenied):
			response.Forbidden(c, 10003, "无权访问该记录")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Update 更新成绩（触发异步通知邮件）
// PUT /api/v1/grades/:id
func (h *GradeHandler) Update(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.gradeSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			response.NotFound(c, 16001, "成绩记录不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Delete 删除成绩
// DELETE /api/v1/grades/:id
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.gradeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			response.NotFound(c, 16001, "成绩记录不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
