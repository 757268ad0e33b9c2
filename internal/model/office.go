package model

import "github.com/jceballos29/control-asistencia/internal/schedule"

// Office 诊室（办公室）表，对应 offices
type Office struct {
	OfficeID      string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string              `gorm:"type:varchar(255);not null;uniqueIndex"         json:"name"`
	WorkStartTime *schedule.TimeOfDay `gorm:"type:time"                                      json:"workStartTime"`
	WorkEndTime   *schedule.TimeOfDay `gorm:"type:time"                                      json:"workEndTime"`
	WorkingDays   WeekdayArray        `gorm:"type:text[]"                                    json:"workingDays"`
	BaseModel

	// 关联（级联删除由外键 ON DELETE CASCADE 保证）
	TimeSlots    []TimeSlot    `gorm:"foreignKey:OfficeID;references:OfficeID;constraint:OnDelete:CASCADE" json:"timeSlots,omitempty"`
	JobPositions []JobPosition `gorm:"foreignKey:OfficeID;references:OfficeID;constraint:OnDelete:CASCADE" json:"jobPositions,omitempty"`
}

// TableName 指定表名
func (Office) TableName() string { return "offices" }

// HasWorkHours 办公时间是否已配置
func (o *Office) HasWorkHours() bool {
	return o.WorkStartTime != nil && o.WorkEndTime != nil
}

// Windows 以区间形式返回已加载的时间段
func (o *Office) Windows() []schedule.Window {
	windows := make([]schedule.Window, 0, len(o.TimeSlots))
	for i := range o.TimeSlots {
		windows = append(windows, o.TimeSlots[i].Window())
	}
	return windows
}

// OfficeWithCounts 列表查询结果，附带关联数量
type OfficeWithCounts struct {
	Office
	TimeSlotsCount    int64 `gorm:"column:time_slots_count"`
	JobPositionsCount int64 `gorm:"column:job_positions_count"`
}
