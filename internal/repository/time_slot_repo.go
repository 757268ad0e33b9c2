package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// TimeSlotRepository 时间段数据访问接口
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	ListByOffice(ctx context.Context, officeID string) ([]model.TimeSlot, error)
	FindOverlapping(ctx context.Context, officeID string, start, end schedule.TimeOfDay, excludeID string) (*model.TimeSlot, error)
	UpdateTimes(ctx context.Context, slot *model.TimeSlot) error
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAllByOffice(ctx context.Context, officeID string) (int64, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Omit("Office").Create(slot).Error
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByOffice 按开始时间升序返回办公室的全部时间段
func (r *timeSlotRepo) ListByOffice(ctx context.Context, officeID string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("office_id = ?", officeID).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// FindOverlapping 查找与 [start, end) 相交的已有时间段（端点相接不算重叠），
// excludeID 非空时排除该时间段自身。无冲突返回 nil, nil。
func (r *timeSlotRepo) FindOverlapping(ctx context.Context, officeID string, start, end schedule.TimeOfDay, excludeID string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	db := r.db.WithContext(ctx).
		Where("office_id = ?", officeID).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != "" {
		db = db.Where("time_slot_id <> ?", excludeID)
	}
	err := db.Order("start_time ASC").First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// UpdateTimes 只写回开始/结束时间
func (r *timeSlotRepo) UpdateTimes(ctx context.Context, slot *model.TimeSlot) error {
	result := r.db.WithContext(ctx).
		Model(slot).
		Omit("Office").
		Updates(map[string]interface{}{
			"start_time": slot.StartTime,
			"end_time":   slot.EndTime,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timeSlotRepo) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		Delete(&model.TimeSlot{})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepo) DeleteAllByOffice(ctx context.Context, officeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("office_id = ?", officeID).
		Delete(&model.TimeSlot{})
	return result.RowsAffected, result.Error
}
