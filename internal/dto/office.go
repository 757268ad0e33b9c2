package dto

import (
	"strings"
	"time"

	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// ── 办公室模块 DTO ──

// CreateOfficeRequest 创建办公室请求
type CreateOfficeRequest struct {
	Name          string   `json:"name"          binding:"required,min=1,max=255"`
	WorkStartTime *string  `json:"workStartTime" binding:"omitempty,timeofday"`
	WorkEndTime   *string  `json:"workEndTime"   binding:"omitempty,timeofday"`
	WorkingDays   []string `json:"workingDays"   binding:"omitempty,unique,dive,weekday"` // 缺省=未配置，[]=显式无工作日
}

// Validate 名称不能为空白；办公时间需同时提供或同时缺省，且结束晚于开始
func (r *CreateOfficeRequest) Validate() []FieldError {
	errs := nonBlank("name", &r.Name)
	return append(errs, validateWorkHours(r.WorkStartTime, r.WorkEndTime, false)...)
}

// UpdateOfficeRequest 更新办公室请求（字段均可选；WorkingDays 为 nil 表示不修改）
type UpdateOfficeRequest struct {
	Name          *string  `json:"name"          binding:"omitempty,min=1,max=255"`
	WorkStartTime *string  `json:"workStartTime" binding:"omitempty,timeofday"`
	WorkEndTime   *string  `json:"workEndTime"   binding:"omitempty,timeofday"`
	WorkingDays   []string `json:"workingDays"   binding:"omitempty,unique,dive,weekday"`
}

// Validate 仅在两端同时提供时校验先后，单边修改由服务层合并后校验
func (r *UpdateOfficeRequest) Validate() []FieldError {
	errs := nonBlank("name", r.Name)
	return append(errs, validateWorkHours(r.WorkStartTime, r.WorkEndTime, true)...)
}

func validateWorkHours(start, end *string, partial bool) []FieldError {
	switch {
	case start == nil && end == nil:
		return nil
	case start == nil || end == nil:
		if partial {
			return nil
		}
		return []FieldError{{Field: "workEndTime", Message: "workStartTime 与 workEndTime 必须同时提供"}}
	}
	return endAfterStart("workStartTime", "workEndTime", *start, *end)
}

// OfficeListRequest 办公室列表查询参数
type OfficeListRequest struct {
	PaginationRequest
	Search            string `form:"search"            binding:"omitempty,max=255"`
	SortBy            string `form:"sortBy"            binding:"omitempty,oneof=name workStartTime workEndTime createdAt updatedAt"`
	SortOrder         string `form:"sortOrder"         binding:"omitempty,oneof=ASC DESC asc desc"`
	WorkStartTimeFrom string `form:"workStartTimeFrom" binding:"omitempty,timeofday"`
	WorkStartTimeTo   string `form:"workStartTimeTo"   binding:"omitempty,timeofday"`
	WorkingDays       string `form:"workingDays"` // 逗号分隔，如 MONDAY,FRIDAY；命中任一即返回
}

// Validate 校验 workingDays 过滤条件
func (r *OfficeListRequest) Validate() []FieldError {
	if _, err := r.ParsedWorkingDays(); err != nil {
		return []FieldError{{Field: "workingDays", Message: err.Error()}}
	}
	return nil
}

// ParsedWorkingDays 解析逗号分隔的工作日过滤条件
func (r *OfficeListRequest) ParsedWorkingDays() ([]schedule.Weekday, error) {
	if strings.TrimSpace(r.WorkingDays) == "" {
		return nil, nil
	}
	var days []schedule.Weekday
	for _, part := range strings.Split(r.WorkingDays, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := schedule.ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// OfficeResponse 办公室信息响应
type OfficeResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	WorkStartTime     *string               `json:"workStartTime"` // HH:MM:SS，未配置为 null
	WorkEndTime       *string               `json:"workEndTime"`
	WorkingDays       []schedule.Weekday    `json:"workingDays"`
	TimeSlotsCount    int64                 `json:"timeSlotsCount"`
	JobPositionsCount int64                 `json:"jobPositionsCount"`
	TimeSlots         []TimeSlotResponse    `json:"timeSlots"`    // 仅详情接口填充，列表中为 null
	JobPositions      []JobPositionResponse `json:"jobPositions"` // 同上
	Calendar          *CalendarResponse     `json:"calendar,omitempty"`
	CreatedAt         string                `json:"createdAt"`
	UpdatedAt         *string               `json:"updatedAt"`
}

// CalendarResponse 日历视图所需的派生信息
type CalendarResponse struct {
	NonWorkingDays        []int `json:"nonWorkingDays"` // 0=周日 … 6=周六
	ScheduleFull          bool  `json:"scheduleFull"`
	WorkingDaysConfigured bool  `json:"workingDaysConfigured"`
}

// ToOfficeResponse 模型 → 响应（不含关联列表）
func ToOfficeResponse(o *model.Office, timeSlotsCount, jobPositionsCount int64) OfficeResponse {
	resp := OfficeResponse{
		ID:                o.OfficeID,
		Name:              o.Name,
		WorkingDays:       o.WorkingDays,
		TimeSlotsCount:    timeSlotsCount,
		JobPositionsCount: jobPositionsCount,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         formatTimePtr(o.UpdatedAt),
	}
	if o.WorkStartTime != nil {
		s := o.WorkStartTime.String()
		resp.WorkStartTime = &s
	}
	if o.WorkEndTime != nil {
		s := o.WorkEndTime.String()
		resp.WorkEndTime = &s
	}
	return resp
}
