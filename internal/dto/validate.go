package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// FieldError 单个字段校验失败详情（写入响应 details）
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口，便于在服务层直接返回
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors 多个字段校验失败
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

var (
	registerOnce sync.Once
	colorRe      = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

// RegisterValidators 向 gin 的 validator 引擎注册自定义标签（幂等）
//   - timeofday: HH:MM 或 HH:MM:SS
//   - weekday:   MONDAY..SUNDAY
//   - color:     #RGB 或 #RRGGBB
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			return schedule.IsValid(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, err := schedule.ParseWeekday(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
			return colorRe.MatchString(fl.Field().String())
		})
		v.RegisterTagNameFunc(jsonFieldName)
	})
}

var tagMessages = map[string]string{
	"required":  "不能为空",
	"timeofday": "格式必须为 HH:MM 或 HH:MM:SS",
	"weekday":   "必须为 MONDAY..SUNDAY 之一",
	"color":     "必须为十六进制颜色（#RGB 或 #RRGGBB）",
	"uuid":      "必须为合法的 UUID",
	"unique":    "不能包含重复值",
	"oneof":     "必须为以下值之一: %s",
	"min":       "长度或数值不能小于 %s",
	"max":       "长度或数值不能大于 %s",
}

// FormatBindingError 将 gin 绑定错误转换为字段错误列表
func FormatBindingError(err error) []FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "无效"
		}
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		out = append(out, FieldError{Field: fieldPath(fe), Message: msg})
	}
	return out
}

// fieldPath 去掉顶层结构体名，保留 json 字段路径
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// nonBlank 去除首尾空白后不能为空；nil 表示未提供，不校验
func nonBlank(field string, v *string) []FieldError {
	if v != nil && strings.TrimSpace(*v) == "" {
		return []FieldError{{Field: field, Message: "不能为空白"}}
	}
	return nil
}

// ── 时间区间辅助 ──

// endAfterStart 两个时间都合法时校验 end > start；格式错误交给 timeofday 标签
func endAfterStart(startField, endField, start, end string) []FieldError {
	s, errS := schedule.Parse(start)
	e, errE := schedule.Parse(end)
	if errS != nil || errE != nil {
		return nil
	}
	if !e.After(s) {
		return []FieldError{{
			Field:   endField,
			Message: fmt.Sprintf("必须晚于 %s", startField),
		}}
	}
	return nil
}

// jsonFieldName 校验错误使用 json/form 标签名，与请求体字段保持一致
func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
