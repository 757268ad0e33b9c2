package schedule

import (
	"fmt"

	"go.uber.org/zap"
)

// Boundary 越界的一端
type Boundary string

const (
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

// OutOfHoursError 时间段超出办公时间，Boundary 指明越界的一端
type OutOfHoursError struct {
	Boundary Boundary
	Value    TimeOfDay // 时间段的越界端点
	Limit    TimeOfDay // 办公时间对应端点
}

func (e *OutOfHoursError) Error() string {
	if e.Boundary == BoundaryStart {
		return fmt.Sprintf("开始时间(start) %s 不能早于办公开始时间 %s", e.Value, e.Limit)
	}
	return fmt.Sprintf("结束时间(end) %s 不能晚于办公结束时间 %s", e.Value, e.Limit)
}

func (e *OutOfHoursError) Is(target error) bool { return target == ErrOutOfOfficeHours }

// OverlapError 与已有时间段重叠，Existing 为冲突的已有区间
type OverlapError struct {
	Candidate  Window
	Existing   Window
	ExistingID string
}

func (e *OverlapError) Error() string {
	if e.Existing == (Window{}) {
		return fmt.Sprintf("时间段 %s 与已有时间段重叠", e.Candidate)
	}
	return fmt.Sprintf("时间段 %s 与已有时间段 %s 重叠", e.Candidate, e.Existing)
}

func (e *OverlapError) Is(target error) bool { return target == ErrSlotOverlap }

// ValidateWithinOfficeHours 校验时间段落在办公时间内，两端均为闭区间边界。
// 办公时间任一端未设置时跳过校验：允许办公室在配置时间前先存在。
func ValidateWithinOfficeHours(officeStart, officeEnd *TimeOfDay, slotStart, slotEnd TimeOfDay) error {
	if officeStart == nil || officeEnd == nil {
		return nil
	}
	if slotStart < *officeStart {
		return &OutOfHoursError{Boundary: BoundaryStart, Value: slotStart, Limit: *officeStart}
	}
	if slotEnd > *officeEnd {
		return &OutOfHoursError{Boundary: BoundaryEnd, Value: slotEnd, Limit: *officeEnd}
	}
	return nil
}

// IsScheduleFull 判断时间段总时长是否已覆盖办公时间。
//
// 只比较总时长，不校验时间段是否连续或互不重叠，属于近似判断。
// 时长按整分钟计算：不足一分钟或非正的时间段记录告警后跳过。
func IsScheduleFull(officeStart, officeEnd *TimeOfDay, slots []Window, logger *zap.Logger) bool {
	if officeStart == nil || officeEnd == nil || *officeEnd <= *officeStart {
		return false
	}
	total := Window{Start: *officeStart, End: *officeEnd}.Minutes()
	if total <= 0 || len(slots) == 0 {
		return false
	}

	sum := 0
	for _, s := range slots {
		d := s.Minutes()
		if d <= 0 {
			if logger != nil {
				logger.Warn("计算总时长时跳过时长不足一分钟的时间段",
					zap.Stringer("slot", s),
					zap.Int("minutes", d),
				)
			}
			continue
		}
		sum += d
	}
	return sum >= total
}
