package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/model"
)

// JobPositionRepository 岗位数据访问接口
type JobPositionRepository interface {
	Create(ctx context.Context, jp *model.JobPosition) error
	GetByID(ctx context.Context, id string) (*model.JobPosition, error)
	ListByOffice(ctx context.Context, officeID string) ([]model.JobPosition, error)
	ExistsByName(ctx context.Context, officeID, name, excludeID string) (bool, error)
	Update(ctx context.Context, jp *model.JobPosition) error
	Delete(ctx context.Context, id string) (int64, error)
}

type jobPositionRepo struct {
	db *gorm.DB
}

// NewJobPositionRepo 创建 JobPositionRepository 实例
func NewJobPositionRepo(db *gorm.DB) JobPositionRepository {
	return &jobPositionRepo{db: db}
}

func (r *jobPositionRepo) Create(ctx context.Context, jp *model.JobPosition) error {
	return r.db.WithContext(ctx).Create(jp).Error
}

func (r *jobPositionRepo) GetByID(ctx context.Context, id string) (*model.JobPosition, error) {
	var jp model.JobPosition
	err := r.db.WithContext(ctx).
		Where("job_position_id = ?", id).
		First(&jp).Error
	if err != nil {
		return nil, err
	}
	return &jp, nil
}

func (r *jobPositionRepo) ListByOffice(ctx context.Context, officeID string) ([]model.JobPosition, error) {
	var list []model.JobPosition
	err := r.db.WithContext(ctx).
		Where("office_id = ?", officeID).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *jobPositionRepo) ExistsByName(ctx context.Context, officeID, name, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.JobPosition{}).
		Where("office_id = ? AND name = ?", officeID, name)
	if excludeID != "" {
		db = db.Where("job_position_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *jobPositionRepo) Update(ctx context.Context, jp *model.JobPosition) error {
	return r.db.WithContext(ctx).
		Model(jp).
		Select("name", "color", "updated_at").
		Updates(jp).Error
}

func (r *jobPositionRepo) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("job_position_id = ?", id).
		Delete(&model.JobPosition{})
	return result.RowsAffected, result.Error
}
