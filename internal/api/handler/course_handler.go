package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/service"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create 创建课程（授课人必须为 teacher 角色）
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstructorNotFound):
			response.NotFound(c, 14002, "授课教师不存在")
		case errors.Is(err, service.ErrInstructorNotTeacher):
			response.BadRequest(c, 14003, "授课人必须为教师角色")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List 课程列表（公开接口，结果走 Redis 读穿缓存）
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	list, total, err := h.courseSvc.List(c.Request.Context(), &req, c.Request.URL.RawQuery)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetByID 课程详情（公开接口；认证用户访问会记一条浏览日志）
// GET /api/v1/courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	result, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"), OptionalUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 14001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14001, "课程不存在")
		case errors.Is(err, service.ErrInstructorNotFound):
			response.NotFound(c, 14002, "授课教师不存在")
		case errors.Is(err, service.ErrInstructorNotTeacher):
			response.BadRequest(c, 14003, "授课人必须为教师角色")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 14001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
