package dto

import (
	"time"

	"github.com/jceballos29/control-asistencia/internal/model"
)

// ── 时间段模块 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	StartTime string `json:"startTime" binding:"required,timeofday"` // "09:00" / "09:00:00"
	EndTime   string `json:"endTime"   binding:"required,timeofday"`
}

// Validate 跨字段校验：结束时间必须晚于开始时间
func (r *CreateTimeSlotRequest) Validate() []FieldError {
	return endAfterStart("startTime", "endTime", r.StartTime, r.EndTime)
}

// UpdateTimeSlotRequest 更新时间段请求（字段均可选）
type UpdateTimeSlotRequest struct {
	StartTime *string `json:"startTime" binding:"omitempty,timeofday"`
	EndTime   *string `json:"endTime"   binding:"omitempty,timeofday"`
}

// Validate 两个时间同时提供时校验先后；单边更新由服务层合并后再校验
func (r *UpdateTimeSlotRequest) Validate() []FieldError {
	if r.StartTime == nil || r.EndTime == nil {
		return nil
	}
	return endAfterStart("startTime", "endTime", *r.StartTime, *r.EndTime)
}

// IsEmpty 未提供任何可更新字段
func (r *UpdateTimeSlotRequest) IsEmpty() bool {
	return r.StartTime == nil && r.EndTime == nil
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID        string  `json:"id"`
	OfficeID  string  `json:"officeId"`
	StartTime string  `json:"startTime"` // HH:MM:SS
	EndTime   string  `json:"endTime"`   // HH:MM:SS
	Label     string  `json:"label"`     // "9:00 a.m. - 1:00 p.m."
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

// ToTimeSlotResponse 模型 → 响应
func ToTimeSlotResponse(s *model.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:        s.TimeSlotID,
		OfficeID:  s.OfficeID,
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Label:     s.StartTime.FormatAmPm() + " - " + s.EndTime.FormatAmPm(),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: formatTimePtr(s.UpdatedAt),
	}
}

// ToTimeSlotResponses 批量转换，空列表返回 []
func ToTimeSlotResponses(slots []model.TimeSlot) []TimeSlotResponse {
	out := make([]TimeSlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, ToTimeSlotResponse(&slots[i]))
	}
	return out
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
