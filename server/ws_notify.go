package server

import (
	"encoding/json"
	"net/http"
	"time"

	"MeldFM/core/scheduler"
	"MeldFM/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RefreshMessage 推送给前端的刷新消息
type RefreshMessage struct {
	Type      string                 `json:"type"`
	Data      scheduler.RefreshEvent `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// NotifyHub 把调度器的刷新事件转发给所有 WebSocket 订阅者。
// 客户端收到 library_refresh 后重新拉取合并列表。
type NotifyHub struct {
	sched      *scheduler.Scheduler
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
}

// NewNotifyHub 创建刷新推送 Hub
func NewNotifyHub(sched *scheduler.Scheduler) *NotifyHub {
	return &NotifyHub{
		sched:      sched,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run 启动 Hub 主循环
func (h *NotifyHub) Run() {
	subID, events := h.sched.Subscribe()
	defer h.sched.Unsubscribe(subID)

	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			logger.Debug("刷新订阅者加入", logger.Int("clients", len(h.clients)))

		case conn := <-h.unregister:
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}

		case ev, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(ev)

		case <-h.done:
			for conn := range h.clients {
				conn.Close()
			}
			return
		}
	}
}

// Stop 停止 Hub
func (h *NotifyHub) Stop() {
	close(h.done)
}

// broadcast 向所有客户端推送刷新事件，写失败的客户端直接剔除
func (h *NotifyHub) broadcast(ev scheduler.RefreshEvent) {
	msg := RefreshMessage{
		Type:      "library_refresh",
		Data:      ev,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// HandleRefreshSocket 升级 WebSocket 连接并注册为刷新订阅者
func (h *NotifyHub) HandleRefreshSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket 升级失败", logger.ErrorField(err))
		return
	}
	h.register <- conn

	// 读循环只用来感知客户端断开
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
