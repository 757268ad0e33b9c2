package model

// JobPosition 岗位标签表，对应 job_positions（office_id + name 唯一）
type JobPosition struct {
	JobPositionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OfficeID      string `gorm:"type:uuid;not null;index"                       json:"officeId"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	Color         string `gorm:"type:varchar(50);not null"                      json:"color"` // #RGB / #RRGGBB
	BaseModel
}

// TableName 指定表名
func (JobPosition) TableName() string { return "job_positions" }
