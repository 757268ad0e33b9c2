package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/repository"
	"github.com/jceballos29/control-asistencia/internal/schedule"
	pkgerrors "github.com/jceballos29/control-asistencia/pkg/errors"
)

// ── 时间段模块业务错误 ──

var (
	ErrTimeSlotNotFound = errors.New("时间段不存在")
)

// TimeSlotService 时间段业务接口
//
// 写操作在同一事务内完成「锁定办公室 → 办公时间校验 → 重叠校验 → 写入」，
// 数据库排他约束 time_slots_no_overlap 作为并发写入的最终兜底，
// 其冲突同样翻译为 schedule.ErrSlotOverlap。
type TimeSlotService interface {
	Create(ctx context.Context, officeID string, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	List(ctx context.Context, officeID string) ([]dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, officeID, id string) (*dto.TimeSlotResponse, error)
	Update(ctx context.Context, officeID, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, officeID, id string) error
	DeleteAllForOffice(ctx context.Context, officeID string) (int64, error)
}

type timeSlotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(repo *repository.Repository, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, officeID string, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	window, err := schedule.ParseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		OfficeID:  officeID,
		StartTime: window.Start,
		EndTime:   window.End,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		office, err := s.lockOffice(ctx, tx, officeID)
		if err != nil {
			return err
		}
		// 办公时间校验失败时不再做重叠校验
		if err := s.validateWithinOfficeHours(office, window); err != nil {
			return err
		}
		if err := s.validateNoOverlap(ctx, tx, officeID, window, ""); err != nil {
			return err
		}
		if err := tx.TimeSlot.Create(ctx, slot); err != nil {
			return s.translateWriteError(officeID, window, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("时间段已创建",
		zap.String("office_id", officeID),
		zap.String("time_slot_id", slot.TimeSlotID),
		zap.Stringer("window", window),
	)

	resp := dto.ToTimeSlotResponse(slot)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

// List 按开始时间升序返回办公室的全部时间段
func (s *timeSlotService) List(ctx context.Context, officeID string) ([]dto.TimeSlotResponse, error) {
	if _, err := s.getOffice(ctx, s.repo, officeID); err != nil {
		return nil, err
	}

	slots, err := s.repo.TimeSlot.ListByOffice(ctx, officeID)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	return dto.ToTimeSlotResponses(slots), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, officeID, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.getSlot(ctx, s.repo, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToTimeSlotResponse(slot)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

// Update 部分更新开始/结束时间。
// 未提供任何时间字段时原样返回，不做任何校验。
func (s *timeSlotService) Update(ctx context.Context, officeID, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	var slot *model.TimeSlot
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		slot, err = s.getSlot(ctx, tx, officeID, id)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			return nil
		}

		window := slot.Window()
		if req.StartTime != nil {
			if window.Start, err = schedule.Parse(*req.StartTime); err != nil {
				return err
			}
		}
		if req.EndTime != nil {
			if window.End, err = schedule.Parse(*req.EndTime); err != nil {
				return err
			}
		}
		if err := window.Validate(); err != nil {
			return err
		}

		office, err := s.lockOffice(ctx, tx, slot.OfficeID)
		if err != nil {
			return err
		}
		if err := s.validateWithinOfficeHours(office, window); err != nil {
			return err
		}
		if err := s.validateNoOverlap(ctx, tx, slot.OfficeID, window, slot.TimeSlotID); err != nil {
			return err
		}

		slot.StartTime, slot.EndTime = window.Start, window.End
		if err := tx.TimeSlot.UpdateTimes(ctx, slot); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeSlotNotFound
			}
			return s.translateWriteError(slot.OfficeID, window, err)
		}

		s.logger.Info("时间段已更新",
			zap.String("time_slot_id", id),
			zap.Stringer("window", window),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToTimeSlotResponse(slot)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotService) Delete(ctx context.Context, officeID, id string) error {
	if _, err := s.getSlot(ctx, s.repo, officeID, id); err != nil {
		return err
	}

	affected, err := s.repo.TimeSlot.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除时间段失败", zap.String("time_slot_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrTimeSlotNotFound
	}

	s.logger.Info("时间段已删除", zap.String("time_slot_id", id))
	return nil
}

// ────────────────────── DeleteAllForOffice ──────────────────────

// DeleteAllForOffice 批量清空办公室的全部时间段，返回删除数量
func (s *timeSlotService) DeleteAllForOffice(ctx context.Context, officeID string) (int64, error) {
	var deleted int64
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := s.lockOffice(ctx, tx, officeID); err != nil {
			return err
		}
		n, err := tx.TimeSlot.DeleteAllByOffice(ctx, officeID)
		if err != nil {
			s.logger.Error("清空时间段失败", zap.String("office_id", officeID), zap.Error(err))
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("办公室时间段已清空", zap.String("office_id", officeID), zap.Int64("deleted", deleted))
	return deleted, nil
}

// ── 校验 ──

func (s *timeSlotService) validateWithinOfficeHours(office *model.Office, w schedule.Window) error {
	if !office.HasWorkHours() {
		s.logger.Debug("办公时间未配置，跳过办公时间校验", zap.String("office_id", office.OfficeID))
	}
	if err := schedule.ValidateWithinOfficeHours(office.WorkStartTime, office.WorkEndTime, w.Start, w.End); err != nil {
		s.logger.Warn("时间段超出办公时间",
			zap.String("office_id", office.OfficeID),
			zap.Stringer("window", w),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// validateNoOverlap 与办公室现有时间段做半开区间相交判断
func (s *timeSlotService) validateNoOverlap(ctx context.Context, tx *repository.Repository, officeID string, w schedule.Window, excludeID string) error {
	existing, err := tx.TimeSlot.FindOverlapping(ctx, officeID, w.Start, w.End, excludeID)
	if err != nil {
		s.logger.Error("重叠校验查询失败", zap.String("office_id", officeID), zap.Error(err))
		return err
	}
	if existing == nil {
		return nil
	}

	s.logger.Warn("检测到时间段重叠",
		zap.String("office_id", officeID),
		zap.Stringer("window", w),
		zap.String("existing_id", existing.TimeSlotID),
	)
	return &schedule.OverlapError{
		Candidate:  w,
		Existing:   existing.Window(),
		ExistingID: existing.TimeSlotID,
	}
}

// translateWriteError 数据库排他约束冲突 → 重叠错误；其他错误原样返回
func (s *timeSlotService) translateWriteError(officeID string, w schedule.Window, err error) error {
	if pkgerrors.IsExclusionViolation(err) {
		s.logger.Warn("数据库排他约束拦截到重叠时间段",
			zap.String("office_id", officeID),
			zap.Stringer("window", w),
			zap.String("constraint", pkgerrors.ConstraintName(err)),
		)
		return &schedule.OverlapError{Candidate: w}
	}
	if pkgerrors.IsForeignKeyViolation(err) {
		return ErrOfficeNotFound
	}
	s.logger.Error("写入时间段失败", zap.String("office_id", officeID), zap.Error(err))
	return err
}

// ── 查询辅助 ──

func (s *timeSlotService) getOffice(ctx context.Context, repo *repository.Repository, officeID string) (*model.Office, error) {
	office, err := repo.Office.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公室失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	return office, nil
}

// lockOffice 在事务内锁定办公室行，串行化同一办公室的时间段写操作
func (s *timeSlotService) lockOffice(ctx context.Context, tx *repository.Repository, officeID string) (*model.Office, error) {
	office, err := tx.Office.GetForUpdate(ctx, officeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("锁定办公室失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	return office, nil
}

// getSlot 时间段必须属于路径中的办公室，否则视为不存在
func (s *timeSlotService) getSlot(ctx context.Context, repo *repository.Repository, officeID, id string) (*model.TimeSlot, error) {
	slot, err := repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("time_slot_id", id), zap.Error(err))
		return nil, err
	}
	if slot.OfficeID != officeID {
		return nil, ErrTimeSlotNotFound
	}
	return slot, nil
}
