package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/service"
	"github.com/jceballos29/control-asistencia/pkg/response"
)

// JobPositionHandler 岗位模块 HTTP 处理器
type JobPositionHandler struct {
	jobPositionSvc service.JobPositionService
}

// NewJobPositionHandler 创建 JobPositionHandler
func NewJobPositionHandler(jobPositionSvc service.JobPositionService) *JobPositionHandler {
	return &JobPositionHandler{jobPositionSvc: jobPositionSvc}
}

// CreateJobPosition 创建岗位
// POST /api/v1/offices/:id/job-positions
func (h *JobPositionHandler) CreateJobPosition(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateJobPositionRequest
	if !bindJSON(c, &req) {
		return
	}

	jp, err := h.jobPositionSvc.Create(c.Request.Context(), officeID, &req)
	if err != nil {
		h.handleJobPositionError(c, err)
		return
	}

	response.Created(c, jp)
}

// ListJobPositions 获取岗位列表
// GET /api/v1/offices/:id/job-positions
func (h *JobPositionHandler) ListJobPositions(c *gin.Context) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.jobPositionSvc.List(c.Request.Context(), officeID)
	if err != nil {
		h.handleJobPositionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetJobPosition 获取岗位详情
// GET /api/v1/offices/:id/job-positions/:jobPositionId
func (h *JobPositionHandler) GetJobPosition(c *gin.Context) {
	officeID, id, ok := h.params(c)
	if !ok {
		return
	}

	jp, err := h.jobPositionSvc.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.handleJobPositionError(c, err)
		return
	}

	response.OK(c, jp)
}

// UpdateJobPosition 更新岗位
// PUT /api/v1/offices/:id/job-positions/:jobPositionId
// PATCH /api/v1/offices/:id/job-positions/:jobPositionId
func (h *JobPositionHandler) UpdateJobPosition(c *gin.Context) {
	officeID, id, ok := h.params(c)
	if !ok {
		return
	}

	var req dto.UpdateJobPositionRequest
	if !bindJSON(c, &req) {
		return
	}

	jp, err := h.jobPositionSvc.Update(c.Request.Context(), officeID, id, &req)
	if err != nil {
		h.handleJobPositionError(c, err)
		return
	}

	response.OK(c, jp)
}

// DeleteJobPosition 删除岗位
// DELETE /api/v1/offices/:id/job-positions/:jobPositionId
func (h *JobPositionHandler) DeleteJobPosition(c *gin.Context) {
	officeID, id, ok := h.params(c)
	if !ok {
		return
	}

	if err := h.jobPositionSvc.Delete(c.Request.Context(), officeID, id); err != nil {
		h.handleJobPositionError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *JobPositionHandler) params(c *gin.Context) (string, string, bool) {
	officeID, ok := MustUUIDParam(c, "id")
	if !ok {
		return "", "", false
	}
	id, ok := MustUUIDParam(c, "jobPositionId")
	if !ok {
		return "", "", false
	}
	return officeID, id, true
}

// handleJobPositionError 统一处理岗位模块业务错误
func (h *JobPositionHandler) handleJobPositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJobPositionNotFound):
		response.NotFound(c, 18001, "岗位不存在")
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 17001, "办公室不存在")
	case errors.Is(err, service.ErrJobPositionNameTaken):
		response.Conflict(c, 18002, "该办公室已存在同名岗位")
	case errors.Is(err, service.ErrJobPositionNameBlank):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败",
			[]dto.FieldError{{Field: "name", Message: "不能为空白"}})
	default:
		response.InternalError(c)
	}
}
