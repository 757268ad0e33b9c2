package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/repository"
	"github.com/jceballos29/control-asistencia/internal/schedule"
	pkgerrors "github.com/jceballos29/control-asistencia/pkg/errors"
)

// ── 办公室模块业务错误 ──

var (
	ErrOfficeNotFound        = errors.New("办公室不存在")
	ErrOfficeNameTaken       = errors.New("办公室名称已存在")
	ErrInvalidWorkHours      = errors.New("办公开始与结束时间必须同时设置，且结束晚于开始")
	ErrWorkHoursExcludeSlots = errors.New("新的办公时间未覆盖已有时间段")
)

// OfficeService 办公室业务接口
type OfficeService interface {
	Create(ctx context.Context, req *dto.CreateOfficeRequest) (*dto.OfficeResponse, error)
	List(ctx context.Context, req *dto.OfficeListRequest) ([]dto.OfficeResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error)
	Calendar(ctx context.Context, id string) (*dto.CalendarResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest) (*dto.OfficeResponse, error)
	Delete(ctx context.Context, id string) error
}

type officeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOfficeService 创建 OfficeService 实例
func NewOfficeService(repo *repository.Repository, logger *zap.Logger) OfficeService {
	return &officeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *officeService) Create(ctx context.Context, req *dto.CreateOfficeRequest) (*dto.OfficeResponse, error) {
	start, end, err := parseWorkHours(req.WorkStartTime, req.WorkEndTime)
	if err != nil {
		return nil, err
	}
	if (start == nil) != (end == nil) || (start != nil && !end.After(*start)) {
		return nil, ErrInvalidWorkHours
	}
	days, err := parseWeekdays(req.WorkingDays)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.Office.ExistsByName(ctx, name, "")
	if err != nil {
		s.logger.Error("检查办公室名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrOfficeNameTaken
	}

	office := &model.Office{
		Name:          name,
		WorkStartTime: start,
		WorkEndTime:   end,
		WorkingDays:   days,
	}
	if err := s.repo.Office.Create(ctx, office); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrOfficeNameTaken
		}
		s.logger.Error("创建办公室失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("办公室已创建", zap.String("office_id", office.OfficeID), zap.String("name", office.Name))

	resp := dto.ToOfficeResponse(office, 0, 0)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *officeService) List(ctx context.Context, req *dto.OfficeListRequest) ([]dto.OfficeResponse, int64, error) {
	filter := repository.OfficeListFilter{
		Search:   strings.TrimSpace(req.Search),
		SortBy:   req.SortBy,
		SortDesc: strings.EqualFold(req.SortOrder, "DESC"),
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	}
	if req.WorkStartTimeFrom != "" {
		t, err := schedule.Parse(req.WorkStartTimeFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.WorkStartFrom = &t
	}
	if req.WorkStartTimeTo != "" {
		t, err := schedule.Parse(req.WorkStartTimeTo)
		if err != nil {
			return nil, 0, err
		}
		filter.WorkStartTo = &t
	}
	days, err := req.ParsedWorkingDays()
	if err != nil {
		return nil, 0, err
	}
	filter.WorkingDays = days

	rows, total, err := s.repo.Office.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询办公室列表失败", zap.Error(err))
		return nil, 0, err
	}

	s.logger.Debug("查询办公室列表",
		zap.Int64("total", total),
		zap.Int("page", req.GetPage()),
		zap.Int("count", len(rows)),
	)

	list := make([]dto.OfficeResponse, 0, len(rows))
	for i := range rows {
		list = append(list, dto.ToOfficeResponse(&rows[i].Office, rows[i].TimeSlotsCount, rows[i].JobPositionsCount))
	}
	return list, total, nil
}

// ────────────────────── GetByID ──────────────────────

// GetByID 办公室详情：包含时间段（按开始时间）、岗位与日历派生信息
func (s *officeService) GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error) {
	office, err := s.repo.Office.GetDetail(ctx, id)
	if err != nil {
		return nil, s.officeLookupError(id, err)
	}

	resp := dto.ToOfficeResponse(office, int64(len(office.TimeSlots)), int64(len(office.JobPositions)))
	resp.TimeSlots = dto.ToTimeSlotResponses(office.TimeSlots)
	resp.JobPositions = dto.ToJobPositionResponses(office.JobPositions)
	resp.Calendar = s.calendar(office)
	return &resp, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *officeService) Calendar(ctx context.Context, id string) (*dto.CalendarResponse, error) {
	office, err := s.repo.Office.GetDetail(ctx, id)
	if err != nil {
		return nil, s.officeLookupError(id, err)
	}
	return s.calendar(office), nil
}

// calendar 由办公室配置推导日历信息：不可选的星期、当天是否排满
func (s *officeService) calendar(office *model.Office) *dto.CalendarResponse {
	return &dto.CalendarResponse{
		NonWorkingDays:        schedule.NonWorkingDayNumbers(office.WorkingDays),
		ScheduleFull:          schedule.IsScheduleFull(office.WorkStartTime, office.WorkEndTime, office.Windows(), s.logger.With(zap.String("office_id", office.OfficeID))),
		WorkingDaysConfigured: office.WorkingDays != nil,
	}
}

// ────────────────────── Update ──────────────────────

func (s *officeService) Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest) (*dto.OfficeResponse, error) {
	start, end, err := parseWorkHours(req.WorkStartTime, req.WorkEndTime)
	if err != nil {
		return nil, err
	}
	var days model.WeekdayArray
	if req.WorkingDays != nil {
		if days, err = parseWeekdays(req.WorkingDays); err != nil {
			return nil, err
		}
	}

	var updated *model.Office
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		office, err := tx.Office.GetForUpdate(ctx, id)
		if err != nil {
			return s.officeLookupError(id, err)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name != office.Name {
				exists, err := tx.Office.ExistsByName(ctx, name, id)
				if err != nil {
					return err
				}
				if exists {
					return ErrOfficeNameTaken
				}
				office.Name = name
			}
		}

		hoursChanged := start != nil || end != nil
		if start != nil {
			office.WorkStartTime = start
		}
		if end != nil {
			office.WorkEndTime = end
		}
		if (office.WorkStartTime == nil) != (office.WorkEndTime == nil) ||
			(office.HasWorkHours() && !office.WorkEndTime.After(*office.WorkStartTime)) {
			return ErrInvalidWorkHours
		}
		if req.WorkingDays != nil {
			office.WorkingDays = days
		}

		// 缩短办公时间时，已有时间段必须仍落在新的办公时间内
		if hoursChanged && office.HasWorkHours() {
			slots, err := tx.TimeSlot.ListByOffice(ctx, id)
			if err != nil {
				return err
			}
			hours := schedule.Window{Start: *office.WorkStartTime, End: *office.WorkEndTime}
			for i := range slots {
				if w := slots[i].Window(); !hours.Contains(w) {
					return fmt.Errorf("%w: %s 不在 %s 内", ErrWorkHoursExcludeSlots, w, hours)
				}
			}
		}

		if err := tx.Office.Update(ctx, office); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return ErrOfficeNameTaken
			}
			return err
		}
		updated = office
		return nil
	})
	if err != nil {
		if !isOfficeBusinessError(err) {
			s.logger.Error("更新办公室失败", zap.String("office_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("办公室已更新", zap.String("office_id", id))

	slotsCount, jobsCount, err := s.repo.Office.CountRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToOfficeResponse(updated, slotsCount, jobsCount)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除办公室，时间段与岗位随之级联删除
func (s *officeService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Office.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除办公室失败", zap.String("office_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrOfficeNotFound
	}
	s.logger.Info("办公室已删除", zap.String("office_id", id))
	return nil
}

// ── 辅助函数 ──

func (s *officeService) officeLookupError(id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOfficeNotFound
	}
	if isOfficeBusinessError(err) {
		return err
	}
	s.logger.Error("查询办公室失败", zap.String("office_id", id), zap.Error(err))
	return err
}

func isOfficeBusinessError(err error) bool {
	return errors.Is(err, ErrOfficeNotFound) ||
		errors.Is(err, ErrOfficeNameTaken) ||
		errors.Is(err, ErrInvalidWorkHours) ||
		errors.Is(err, ErrWorkHoursExcludeSlots)
}

func parseWorkHours(start, end *string) (*schedule.TimeOfDay, *schedule.TimeOfDay, error) {
	var s, e *schedule.TimeOfDay
	if start != nil {
		t, err := schedule.Parse(*start)
		if err != nil {
			return nil, nil, err
		}
		s = &t
	}
	if end != nil {
		t, err := schedule.Parse(*end)
		if err != nil {
			return nil, nil, err
		}
		e = &t
	}
	return s, e, nil
}

// parseWeekdays nil 保持 nil（未配置），空切片保持为空（显式无工作日）
func parseWeekdays(in []string) (model.WeekdayArray, error) {
	if in == nil {
		return nil, nil
	}
	out := make(model.WeekdayArray, 0, len(in))
	for _, v := range in {
		d, err := schedule.ParseWeekday(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
