package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/repository"
	pkgerrors "github.com/jceballos29/control-asistencia/pkg/errors"
)

// ── 岗位模块业务错误 ──

var (
	ErrJobPositionNotFound  = errors.New("岗位不存在")
	ErrJobPositionNameTaken = errors.New("该办公室已存在同名岗位")
	ErrJobPositionNameBlank = errors.New("岗位名称不能为空白")
)

// JobPositionService 岗位业务接口（岗位归属于办公室）
type JobPositionService interface {
	Create(ctx context.Context, officeID string, req *dto.CreateJobPositionRequest) (*dto.JobPositionResponse, error)
	List(ctx context.Context, officeID string) ([]dto.JobPositionResponse, error)
	GetByID(ctx context.Context, officeID, id string) (*dto.JobPositionResponse, error)
	Update(ctx context.Context, officeID, id string, req *dto.UpdateJobPositionRequest) (*dto.JobPositionResponse, error)
	Delete(ctx context.Context, officeID, id string) error
}

type jobPositionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewJobPositionService 创建 JobPositionService 实例
func NewJobPositionService(repo *repository.Repository, logger *zap.Logger) JobPositionService {
	return &jobPositionService{repo: repo, logger: logger}
}

func (s *jobPositionService) Create(ctx context.Context, officeID string, req *dto.CreateJobPositionRequest) (*dto.JobPositionResponse, error) {
	if err := s.ensureOffice(ctx, officeID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrJobPositionNameBlank
	}
	if err := s.ensureNameFree(ctx, officeID, name, ""); err != nil {
		return nil, err
	}

	jp := &model.JobPosition{
		OfficeID: officeID,
		Name:     name,
		Color:    req.Color,
	}
	if err := s.repo.JobPosition.Create(ctx, jp); err != nil {
		return nil, s.translateWriteError(err)
	}

	s.logger.Info("岗位已创建", zap.String("office_id", officeID), zap.String("name", name))
	resp := dto.ToJobPositionResponse(jp)
	return &resp, nil
}

// List 按名称升序返回办公室的岗位
func (s *jobPositionService) List(ctx context.Context, officeID string) ([]dto.JobPositionResponse, error) {
	if err := s.ensureOffice(ctx, officeID); err != nil {
		return nil, err
	}
	list, err := s.repo.JobPosition.ListByOffice(ctx, officeID)
	if err != nil {
		s.logger.Error("查询岗位列表失败", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	return dto.ToJobPositionResponses(list), nil
}

func (s *jobPositionService) GetByID(ctx context.Context, officeID, id string) (*dto.JobPositionResponse, error) {
	jp, err := s.get(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToJobPositionResponse(jp)
	return &resp, nil
}

func (s *jobPositionService) Update(ctx context.Context, officeID, id string, req *dto.UpdateJobPositionRequest) (*dto.JobPositionResponse, error) {
	jp, err := s.get(ctx, officeID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrJobPositionNameBlank
		}
		if name != jp.Name {
			if err := s.ensureNameFree(ctx, officeID, name, id); err != nil {
				return nil, err
			}
			jp.Name = name
		}
	}
	if req.Color != nil {
		jp.Color = *req.Color
	}

	if err := s.repo.JobPosition.Update(ctx, jp); err != nil {
		return nil, s.translateWriteError(err)
	}

	s.logger.Info("岗位已更新", zap.String("job_position_id", id))
	resp := dto.ToJobPositionResponse(jp)
	return &resp, nil
}

func (s *jobPositionService) Delete(ctx context.Context, officeID, id string) error {
	if _, err := s.get(ctx, officeID, id); err != nil {
		return err
	}
	affected, err := s.repo.JobPosition.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除岗位失败", zap.String("job_position_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrJobPositionNotFound
	}
	s.logger.Info("岗位已删除", zap.String("job_position_id", id))
	return nil
}

// ── 辅助函数 ──

func (s *jobPositionService) ensureOffice(ctx context.Context, officeID string) error {
	if _, err := s.repo.Office.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficeNotFound
		}
		s.logger.Error("查询办公室失败", zap.String("office_id", officeID), zap.Error(err))
		return err
	}
	return nil
}

func (s *jobPositionService) ensureNameFree(ctx context.Context, officeID, name, excludeID string) error {
	exists, err := s.repo.JobPosition.ExistsByName(ctx, officeID, name, excludeID)
	if err != nil {
		s.logger.Error("检查岗位名称失败", zap.Error(err))
		return err
	}
	if exists {
		return ErrJobPositionNameTaken
	}
	return nil
}

// get 岗位必须属于路径中的办公室
func (s *jobPositionService) get(ctx context.Context, officeID, id string) (*model.JobPosition, error) {
	if err := s.ensureOffice(ctx, officeID); err != nil {
		return nil, err
	}
	jp, err := s.repo.JobPosition.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobPositionNotFound
		}
		s.logger.Error("查询岗位失败", zap.String("job_position_id", id), zap.Error(err))
		return nil, err
	}
	if jp.OfficeID != officeID {
		return nil, ErrJobPositionNotFound
	}
	return jp, nil
}

func (s *jobPositionService) translateWriteError(err error) error {
	switch {
	case pkgerrors.IsUniqueViolation(err):
		return ErrJobPositionNameTaken
	case pkgerrors.IsForeignKeyViolation(err):
		return ErrOfficeNotFound
	}
	s.logger.Error("写入岗位失败", zap.Error(err))
	return err
}
