package notifier

// ── 实时推送消息定义 ──

// Topic 逻辑订阅主题
type Topic string

const (
	TopicEvents    Topic = "events"    // 新考勤事件
	TopicReports   Topic = "reports"   // 报表相关变化（事件落库、同步状态迁移）
	TopicDashboard Topic = "dashboard" // 看板总览
)

// 消息类型
const (
	TypeEventUpdate  = "event_update"
	TypeReportUpdate = "report_update"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Message 推送消息信封
// payload 随 type 而定；心跳消息不携带业务负载
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ValidTopic 校验订阅主题
func ValidTopic(t Topic) bool {
	switch t {
	case TopicEvents, TopicReports, TopicDashboard:
		return true
	}
	return false
}
