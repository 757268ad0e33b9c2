package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Weekday 工作日枚举，取值与接口中的枚举名一致
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// AllWeekdays 按周一到周日排列
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNumbers = map[Weekday]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// ParseWeekday 大小写不敏感
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	_, ok := weekdayNumbers[d]
	return ok
}

// Number 0=周日 … 6=周六，与日期控件约定一致
func (d Weekday) Number() (int, bool) {
	n, ok := weekdayNumbers[d]
	return int(n), ok
}

// TimeWeekday 转为标准库 time.Weekday
func (d Weekday) TimeWeekday() (time.Weekday, bool) {
	n, ok := weekdayNumbers[d]
	return n, ok
}

// NonWorkingDayNumbers 计算日期控件中应禁用的星期编号（0=周日 … 6=周六）。
//
// workingDays 为空或包含全部 7 天时返回空集合，表示"不限制"而非"每天休息"。
// 无法识别的取值被忽略。结果升序，仅作前端提示，不参与持久化校验。
func NonWorkingDayNumbers(workingDays []Weekday) []int {
	allowed := make(map[int]bool, len(workingDays))
	for _, d := range workingDays {
		if n, ok := d.Number(); ok {
			allowed[n] = true
		}
	}
	if len(workingDays) == 0 || len(allowed) == 7 {
		return []int{}
	}

	result := make([]int, 0, 7-len(allowed))
	for n := 0; n < 7; n++ {
		if !allowed[n] {
			result = append(result, n)
		}
	}
	return result
}
