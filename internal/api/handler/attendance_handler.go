package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/service"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Create 开放一条待确认考勤记录（教职工操作，触发异步提醒邮件）
// POST /api/v1/attendance
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req dto.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.attendanceSvc.Create(c.Request.Context(), &req)
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

// Mark 学生确认本人考勤
// POST /api/v1/attendance/mark
func (h *AttendanceHandler) Mark(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoStudentProfile):
			response.NotFound(c, 13003, "当前账号没有学生档案")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14001, "课程不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// List 考勤列表
// GET /api/v1/attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, 10001, err)
		return
	}

	list, total, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
