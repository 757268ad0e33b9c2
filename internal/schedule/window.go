package schedule

import "fmt"

// Window 半开区间 [Start, End)
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewWindow 构造区间，要求 end > start
func NewWindow(start, end TimeOfDay) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// ParseWindow 解析一对 HH:MM[:SS] 字符串
func ParseWindow(start, end string) (Window, error) {
	s, err := Parse(start)
	if err != nil {
		return Window{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

// Validate 校验 End > Start
func (w Window) Validate() error {
	if w.End <= w.Start {
		return fmt.Errorf("%w: %s", ErrInvalidRange, w)
	}
	return nil
}

// Minutes 区间时长（分钟，按整分钟相减，忽略秒）
func (w Window) Minutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Overlaps 半开区间重叠判定：仅共享边界不算重叠。
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && w.End > o.Start
}

// Contains 判断 o 是否完全落在 w 内（两端均可与 w 的边界重合）
func (w Window) Contains(o Window) bool {
	return o.Start >= w.Start && o.End <= w.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// FindOverlap 返回 existing 中第一个与 candidate 重叠的下标
func FindOverlap(candidate Window, existing []Window) (int, bool) {
	for i, e := range existing {
		if candidate.Overlaps(e) {
			return i, true
		}
	}
	return -1, false
}
