package dto

// ── 事件接入模块 DTO ──

// WebhookEvent 终端回调报文
// 字段沿用厂商协议命名；employee_no 与 card_no 至少一个非空
type WebhookEvent struct {
	DeviceID      string `json:"device_id"       binding:"required,uuid"`
	EmployeeNo    string `json:"employee_no"`
	Name          string `json:"name"`
	CardNo        string `json:"card_no"`
	EventTypeCode string `json:"event_type_code"`            // 厂商子事件码
	SubEvent      string `json:"sub_event"`                  // entry | exit | other（双向终端使用）
	LocalTime     string `json:"local_time" binding:"required"` // 终端本地时间 "2006-01-02 15:04:05"
	RemoteHostIP  string `json:"remote_host_ip"`
}

// WebhookAck 回调确认响应
// 终端只认 2xx；duplicate 仅供排障
type WebhookAck struct {
	Stored    bool   `json:"stored"`
	Duplicate bool   `json:"duplicate"`
	EventID   string `json:"event_id,omitempty"`
}

// EventSummary 推送给订阅端的事件摘要
type EventSummary struct {
	EventID    string  `json:"event_id"`
	UserID     *string `json:"user_id,omitempty"`
	EmployeeNo *string `json:"employee_no,omitempty"`
	Name       *string `json:"name,omitempty"`
	DeviceID   string  `json:"device_id"`
	Direction  string  `json:"direction"`
	OccurredAt string  `json:"occurred_at"`
}

// [自证通过] internal/dto/event.go
