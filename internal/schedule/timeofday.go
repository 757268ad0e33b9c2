// Package schedule 办公时间与时间段的核心校验规则。
//
// 本包不依赖存储与 HTTP 层：所有函数都是其输入的纯函数（IsScheduleFull 仅额外写日志），
// 由 service 层在持久化前调用，同一套规则也用于导出与日历计算。
package schedule

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── 业务错误 ──

var (
	ErrInvalidFormat    = errors.New("时间格式无效，应为 HH:MM 或 HH:MM:SS")
	ErrInvalidRange     = errors.New("结束时间必须晚于开始时间")
	ErrOutOfOfficeHours = errors.New("时间段超出办公时间")
	ErrSlotOverlap      = errors.New("时间段与已有时间段重叠")
	ErrInvalidWeekday   = errors.New("无效的星期值，应为 MONDAY..SUNDAY")
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(:[0-5]\d)?$`)

// TimeOfDay 一天中的时刻（自零点起的秒数），固定按 UTC 解释，不受本地时区影响。
// 零值即 00:00:00。
type TimeOfDay int32

// New 由时、分、秒构造 TimeOfDay
func New(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidFormat, hour, minute, second)
	}
	return TimeOfDay(hour*secondsPerHour + minute*secondsPerMinute + second), nil
}

// Parse 解析 HH:MM 或 HH:MM:SS（24 小时制），秒缺省为 00。
func Parse(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3][1:])
	}
	return New(h, mi, sec)
}

// MustParse 同 Parse，格式错误时 panic，仅用于常量与测试。
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsValid 校验字符串是否为合法时刻，供请求参数校验使用
func IsValid(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// FromTime 取 time.Time 在 UTC 下的时分秒
func FromTime(t time.Time) TimeOfDay {
	t = t.UTC()
	return TimeOfDay(t.Hour()*secondsPerHour + t.Minute()*secondsPerMinute + t.Second())
}

func (t TimeOfDay) Hour() int   { return int(t) / secondsPerHour }
func (t TimeOfDay) Minute() int { return int(t) % secondsPerHour / secondsPerMinute }
func (t TimeOfDay) Second() int { return int(t) % secondsPerMinute }

// Minutes 自零点起的整分钟数（忽略秒）
func (t TimeOfDay) Minutes() int { return int(t) / secondsPerMinute }

func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t > u }

// Compare 返回 -1 / 0 / 1
func (t TimeOfDay) Compare(u TimeOfDay) int {
	switch {
	case t < u:
		return -1
	case t > u:
		return 1
	default:
		return 0
	}
}

// String 规范格式 HH:MM:SS
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// FormatAmPm 12 小时制展示，如 "2:30 p.m."；仅用于展示，不参与校验。
func (t TimeOfDay) FormatAmPm() string {
	h := t.Hour()
	suffix := "a.m."
	if h >= 12 {
		suffix = "p.m."
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

// On 将时刻落到 date 所在的日期与时区上
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

// ── JSON ──

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 接受 "HH:MM" / "HH:MM:SS"；null 不修改原值
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, b)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ── PostgreSQL TIME 列映射（GORM Scanner/Valuer） ──

// Scan 兼容驱动返回的 "HH:MM:SS[.ffffff]" 文本与 time.Time。
func (t *TimeOfDay) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = FromTime(v)
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("TimeOfDay.Scan: unsupported type %T", src)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("TimeOfDay.Scan: %w", err)
	}
	*t = v
	return nil
}

// Value 写入 HH:MM:SS 文本
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}
