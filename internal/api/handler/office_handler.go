package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/service"
	"github.com/jceballos29/control-asistencia/pkg/response"
)

// OfficeHandler 办公室模块 HTTP 处理器
type OfficeHandler struct {
	officeSvc service.OfficeService
}

// NewOfficeHandler 创建 OfficeHandler
func NewOfficeHandler(officeSvc service.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeSvc: officeSvc}
}

// CreateOffice 创建办公室
// POST /api/v1/offices
func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var req dto.CreateOfficeRequest
	if !bindJSON(c, &req) {
		return
	}

	office, err := h.officeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.Created(c, office)
}

// ListOffices 获取办公室列表（分页、搜索、排序、过滤）
// GET /api/v1/offices
func (h *OfficeHandler) ListOffices(c *gin.Context) {
	var req dto.OfficeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", dto.FormatBindingError(err))
		return
	}
	if details := req.Validate(); len(details) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", details)
		return
	}

	list, total, err := h.officeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetOffice 获取办公室详情（含时间段、岗位与日历信息）
// GET /api/v1/offices/:id
func (h *OfficeHandler) GetOffice(c *gin.Context) {
	id, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	office, err := h.officeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, office)
}

// GetCalendar 获取日期控件所需的日历信息
// GET /api/v1/offices/:id/calendar
func (h *OfficeHandler) GetCalendar(c *gin.Context) {
	id, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	cal, err := h.officeSvc.Calendar(c.Request.Context(), id)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, cal)
}

// UpdateOffice 更新办公室
// PUT /api/v1/offices/:id
// PATCH /api/v1/offices/:id
func (h *OfficeHandler) UpdateOffice(c *gin.Context) {
	id, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOfficeRequest
	if !bindJSON(c, &req) {
		return
	}

	office, err := h.officeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, office)
}

// DeleteOffice 删除办公室（时间段与岗位级联删除）
// DELETE /api/v1/offices/:id
func (h *OfficeHandler) DeleteOffice(c *gin.Context) {
	id, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.officeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.NoContent(c)
}

// handleOfficeError 统一处理办公室模块业务错误
func (h *OfficeHandler) handleOfficeError(c *gin.Context, err error) {
	if handleScheduleError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 17001, "办公室不存在")
	case errors.Is(err, service.ErrOfficeNameTaken):
		response.Conflict(c, 17002, "办公室名称已存在")
	case errors.Is(err, service.ErrInvalidWorkHours):
		response.BadRequest(c, 17003, err.Error())
	case errors.Is(err, service.ErrWorkHoursExcludeSlots):
		response.Conflict(c, 17004, err.Error())
	default:
		response.InternalError(c)
	}
}
