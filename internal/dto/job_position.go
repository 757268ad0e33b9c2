package dto

import (
	"time"

	"github.com/jceballos29/control-asistencia/internal/model"
)

// ── 岗位模块 DTO ──

// CreateJobPositionRequest 创建岗位请求
type CreateJobPositionRequest struct {
	Name  string `json:"name"  binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"required,max=50,color"` // #3498DB
}

// Validate 名称去除空白后不能为空
func (r *CreateJobPositionRequest) Validate() []FieldError {
	return nonBlank("name", &r.Name)
}

// UpdateJobPositionRequest 更新岗位请求
type UpdateJobPositionRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=50,color"`
}

func (r *UpdateJobPositionRequest) Validate() []FieldError {
	return nonBlank("name", r.Name)
}

// JobPositionResponse 岗位信息响应
type JobPositionResponse struct {
	ID        string  `json:"id"`
	OfficeID  string  `json:"officeId"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

// ToJobPositionResponse 模型 → 响应
func ToJobPositionResponse(j *model.JobPosition) JobPositionResponse {
	return JobPositionResponse{
		ID:        j.JobPositionID,
		OfficeID:  j.OfficeID,
		Name:      j.Name,
		Color:     j.Color,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: formatTimePtr(j.UpdatedAt),
	}
}

// ToJobPositionResponses 批量转换，空列表返回 []
func ToJobPositionResponses(list []model.JobPosition) []JobPositionResponse {
	out := make([]JobPositionResponse, 0, len(list))
	for i := range list {
		out = append(out, ToJobPositionResponse(&list[i]))
	}
	return out
}
