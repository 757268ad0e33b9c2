package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RequiredConstraints 迁移完成后必须存在的约束。
// time_slots_no_overlap 是时间段重叠的数据库兜底，缺失时拒绝启动。
var RequiredConstraints = []string{
	"offices_name_key",
	"time_slots_range_check",
	"time_slots_no_overlap",
	"job_positions_office_name_key",
}

// RunMigrations 应用 migrations/ 下全部未执行的 up 迁移，并校验关键约束
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	files, err := migrationFiles()
	if err != nil {
		return fmt.Errorf("读取迁移文件失败: %w", err)
	}
	logger.Debug("加载内嵌迁移", zap.Strings("files", files))

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("数据库结构已是最新")
	case err != nil:
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		return fmt.Errorf("数据库迁移处于 dirty 状态（version=%d），需人工修复", version)
	}

	missing, err := missingConstraints(db, RequiredConstraints)
	if err != nil {
		return fmt.Errorf("校验数据库约束失败: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("数据库缺少约束: %v", missing)
	}

	logger.Info("数据库迁移完成",
		zap.Uint("version", version),
		zap.Int("files", len(files)),
		zap.Strings("constraints", RequiredConstraints),
	)
	return nil
}

// migrationFiles 内嵌的 up 迁移文件名，按版本升序
func migrationFiles() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func missingConstraints(db *sql.DB, names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = $1)`, name).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
