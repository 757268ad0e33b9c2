package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/service"
	"github.com/jceballos29/control-asistencia/pkg/response"
)

// TimeSlotHandler 时间段模块 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// ListTimeSlots 获取办公室的时间段列表（按开始时间升序）
// GET /api/v1/offices/:id/time-slots
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.timeSlotSvc.List(c.Request.Context(), officeID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// GetTimeSlot 获取时间段详情
// GET /api/v1/offices/:id/time-slots/:slotId
func (h *TimeSlotHandler) GetTimeSlot(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}
	id, ok := MustUUIDParam(c, "slotId")
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// CreateTimeSlot 创建时间段
// POST /api/v1/offices/:id/time-slots
func (h *TimeSlotHandler) CreateTimeSlot(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.timeSlotSvc.Create(c.Request.Context(), officeID, &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.Created(c, slot)
}

// UpdateTimeSlot 更新时间段（PUT 与 PATCH 语义相同：部分字段替换）
// PUT /api/v1/offices/:id/time-slots/:slotId
// PATCH /api/v1/offices/:id/time-slots/:slotId
func (h *TimeSlotHandler) UpdateTimeSlot(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}
	id, ok := MustUUIDParam(c, "slotId")
	if !ok {
		return
	}

	var req dto.UpdateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.timeSlotSvc.Update(c.Request.Context(), officeID, id, &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteTimeSlot 删除时间段
// DELETE /api/v1/offices/:id/time-slots/:slotId
func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}
	id, ok := MustUUIDParam(c, "slotId")
	if !ok {
		return
	}

	if err := h.timeSlotSvc.Delete(c.Request.Context(), officeID, id); err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteAllTimeSlots 清空办公室的全部时间段
// DELETE /api/v1/offices/:id/time-slots
func (h *TimeSlotHandler) DeleteAllTimeSlots(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.timeSlotSvc.DeleteAllForOffice(c.Request.Context(), officeID); err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.NoContent(c)
}

// handleTimeSlotError 统一处理时间段模块业务错误
func (h *TimeSlotHandler) handleTimeSlotError(c *gin.Context, err error) {
	if handleScheduleError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 15001, "时间段不存在")
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 17001, "办公室不存在")
	default:
		response.InternalError(c)
	}
}
