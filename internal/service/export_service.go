package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/config"
	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/repository"
	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
//   - Excel：办公室概要 / 时间段 / 岗位 三个 Sheet
//   - iCalendar：每个时间段一个按周重复的 VEVENT，BYDAY 取办公室工作日
type ExportService interface {
	ExportOfficeExcel(ctx context.Context, officeID string) (*bytes.Buffer, string, error)
	ExportOfficeICS(ctx context.Context, officeID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.ExportConfig
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) loadOffice(ctx context.Context, officeID string) (*model.Office, error) {
	office, err := s.repo.Office.GetDetail(ctx, officeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公室失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	return office, nil
}

// ═══════════════════════════════════════════════════════════
// ExportOfficeExcel: 导出办公室排班配置为 Excel
// ═══════════════════════════════════════════════════════════

var weekdayLabels = map[schedule.Weekday]string{
	schedule.Monday:    "Lunes",
	schedule.Tuesday:   "Martes",
	schedule.Wednesday: "Miércoles",
	schedule.Thursday:  "Jueves",
	schedule.Friday:    "Viernes",
	schedule.Saturday:  "Sábado",
	schedule.Sunday:    "Domingo",
}

const (
	sheetOffice    = "Consultorio"
	sheetTimeSlots = "Franjas"
	sheetJobs      = "Puestos"
)

func (s *exportService) ExportOfficeExcel(ctx context.Context, officeID string) (*bytes.Buffer, string, error) {
	office, err := s.loadOffice(ctx, officeID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetOffice)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")
	f.NewSheet(sheetTimeSlots)
	f.NewSheet(sheetJobs)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── 概要 ──
	f.SetColWidth(sheetOffice, "A", "A", 22)
	f.SetColWidth(sheetOffice, "B", "B", 40)
	summary := [][2]interface{}{
		{"Nombre", office.Name},
		{"Inicio de jornada", timeOrDash(office.WorkStartTime)},
		{"Fin de jornada", timeOrDash(office.WorkEndTime)},
		{"Días laborales", workingDaysLabel(office.WorkingDays)},
		{"Franjas", len(office.TimeSlots)},
		{"Puestos", len(office.JobPositions)},
		{"Agenda completa", yesNo(schedule.IsScheduleFull(office.WorkStartTime, office.WorkEndTime, office.Windows(), s.logger))},
	}
	for i, kv := range summary {
		row := i + 1
		f.SetCellValue(sheetOffice, cell("A", row), kv[0])
		f.SetCellValue(sheetOffice, cell("B", row), kv[1])
		f.SetCellStyle(sheetOffice, cell("A", row), cell("A", row), headerStyle)
	}

	// ── 时间段 ──
	f.SetColWidth(sheetTimeSlots, "A", "A", 6)
	f.SetColWidth(sheetTimeSlots, "B", "E", 16)
	for i, h := range []string{"#", "Inicio", "Fin", "Horario", "Minutos"} {
		f.SetCellValue(sheetTimeSlots, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetTimeSlots, "A1", "E1", headerStyle)
	for i, ts := range office.TimeSlots {
		row := i + 2
		w := ts.Window()
		f.SetCellValue(sheetTimeSlots, cell("A", row), i+1)
		f.SetCellValue(sheetTimeSlots, cell("B", row), ts.StartTime.String())
		f.SetCellValue(sheetTimeSlots, cell("C", row), ts.EndTime.String())
		f.SetCellValue(sheetTimeSlots, cell("D", row), ts.StartTime.FormatAmPm()+" - "+ts.EndTime.FormatAmPm())
		f.SetCellValue(sheetTimeSlots, cell("E", row), w.Minutes())
	}

	// ── 岗位（颜色列按岗位颜色填充）──
	f.SetColWidth(sheetJobs, "A", "A", 30)
	f.SetColWidth(sheetJobs, "B", "B", 12)
	f.SetCellValue(sheetJobs, "A1", "Puesto")
	f.SetCellValue(sheetJobs, "B1", "Color")
	f.SetCellStyle(sheetJobs, "A1", "B1", headerStyle)
	for i, jp := range office.JobPositions {
		row := i + 2
		f.SetCellValue(sheetJobs, cell("A", row), jp.Name)
		f.SetCellValue(sheetJobs, cell("B", row), jp.Color)
		if style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{expandHexColor(jp.Color)}, Pattern: 1},
		}); err == nil {
			f.SetCellStyle(sheetJobs, cell("B", row), cell("B", row), style)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("导出办公室 Excel", zap.String("office_id", officeID), zap.Int("time_slots", len(office.TimeSlots)))
	return buf, fmt.Sprintf("horario_%s.xlsx", fileSafe(office.Name)), nil
}

// ═══════════════════════════════════════════════════════════
// ExportOfficeICS: 导出办公室时间段为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个时间段生成一个 VEVENT：
//   - DTSTART/DTEND 为导出当天起第一个工作日的对应时刻（按 export.timezone 解释）
//   - RRULE:FREQ=WEEKLY;BYDAY=<工作日>；工作日未配置或为空时视为每天

func (s *exportService) ExportOfficeICS(ctx context.Context, officeID string) (*bytes.Buffer, string, error) {
	office, err := s.loadOffice(ctx, officeID)
	if err != nil {
		return nil, "", err
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		s.logger.Error("加载导出时区失败", zap.String("timezone", s.cfg.Timezone), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	days := []schedule.Weekday(office.WorkingDays)
	if len(days) == 0 {
		days = schedule.AllWeekdays
	}
	byDay := make([]string, 0, len(days))
	for _, d := range schedule.AllWeekdays {
		if containsWeekday(days, d) {
			byDay = append(byDay, string(d)[:2])
		}
	}

	now := s.now().In(loc)
	anchor := firstWorkingDate(now, days)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//control-asistencia//office-schedule//ES")
	cal.SetXWRCalName(fmt.Sprintf("%s - %s", s.cfg.CalendarName, office.Name))
	cal.SetXWRTimezone(loc.String())

	for _, ts := range office.TimeSlots {
		event := cal.AddEvent(fmt.Sprintf("%s@control-asistencia", ts.TimeSlotID))
		event.SetDtStampTime(now)
		event.SetStartAt(ts.StartTime.On(anchor))
		event.SetEndAt(ts.EndTime.On(anchor))
		event.SetSummary(fmt.Sprintf("%s: %s - %s", office.Name, ts.StartTime.FormatAmPm(), ts.EndTime.FormatAmPm()))
		event.SetLocation(office.Name)
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+strings.Join(byDay, ","))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	s.logger.Info("导出办公室日历", zap.String("office_id", officeID), zap.Int("events", len(office.TimeSlots)))
	return buf, fmt.Sprintf("horario_%s.ics", fileSafe(office.Name)), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func timeOrDash(t *schedule.TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.String() + " (" + t.FormatAmPm() + ")"
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// workingDaysLabel NULL → 未配置；{} → 无
func workingDaysLabel(days model.WeekdayArray) string {
	if days == nil {
		return "Sin configurar"
	}
	if len(days) == 0 {
		return "Ninguno"
	}
	labels := make([]string, 0, len(days))
	for _, d := range schedule.AllWeekdays {
		if containsWeekday(days, d) {
			labels = append(labels, weekdayLabels[d])
		}
	}
	return strings.Join(labels, ", ")
}

func containsWeekday(days []schedule.Weekday, d schedule.Weekday) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

// firstWorkingDate 从 from 当天起（含）第一个属于 days 的日期
func firstWorkingDate(from time.Time, days []schedule.Weekday) time.Time {
	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		for _, wd := range days {
			if n, ok := wd.TimeWeekday(); ok && n == d.Weekday() {
				return d
			}
		}
	}
	return from
}

// expandHexColor #RGB → #RRGGBB
func expandHexColor(c string) string {
	if len(c) == 4 && c[0] == '#' {
		return "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
	}
	return c
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
