package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/schedule"
	"github.com/jceballos29/control-asistencia/pkg/response"
)

// MustUUIDParam 读取并校验路径参数为 UUID。
// 校验失败时写入 400 响应并返回 false，调用方应直接 return。
func MustUUIDParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", []dto.FieldError{
			{Field: name, Message: "必须为合法的 UUID"},
		})
		return "", false
	}
	return v, true
}

// validatable 带跨字段校验的请求 DTO
type validatable interface {
	Validate() []dto.FieldError
}

// bindJSON 绑定请求体并执行跨字段校验，失败时写入 400 响应
func bindJSON(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", dto.FormatBindingError(err))
		return false
	}
	if details := req.Validate(); len(details) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", details)
		return false
	}
	return true
}

// handleScheduleError 处理时间计算相关的业务错误，已写入响应时返回 true
func handleScheduleError(c *gin.Context, err error) bool {
	var (
		outOfHours *schedule.OutOfHoursError
		overlap    *schedule.OverlapError
	)
	switch {
	case errors.Is(err, schedule.ErrInvalidFormat),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrInvalidWeekday):
		response.BadRequest(c, 10001, err.Error())
	case errors.As(err, &outOfHours):
		response.ErrorWithDetails(c, http.StatusConflict, 15002, outOfHours.Error(), gin.H{
			"boundary": outOfHours.Boundary,
			"value":    outOfHours.Value.String(),
			"limit":    outOfHours.Limit.String(),
		})
	case errors.As(err, &overlap):
		details := gin.H{
			"startTime": overlap.Candidate.Start.String(),
			"endTime":   overlap.Candidate.End.String(),
		}
		if overlap.ExistingID != "" {
			details["conflictingId"] = overlap.ExistingID
			details["conflictingStartTime"] = overlap.Existing.Start.String()
			details["conflictingEndTime"] = overlap.Existing.End.String()
		}
		response.ErrorWithDetails(c, http.StatusConflict, 15003, overlap.Error(), details)
	case errors.Is(err, schedule.ErrOutOfOfficeHours):
		response.Conflict(c, 15002, err.Error())
	case errors.Is(err, schedule.ErrSlotOverlap):
		response.Conflict(c, 15003, err.Error())
	default:
		return false
	}
	return true
}
