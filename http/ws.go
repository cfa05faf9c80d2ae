package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"smartenergy/ml"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 16
)

// predictionEvent 推送给仪表盘客户端的消息结构
type predictionEvent struct {
	Type        string          `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	Predictions []ml.Prediction `json:"predictions"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 向已连接的仪表盘客户端广播每个预测批次
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Run 启动广播循环，ctx取消后关闭所有客户端
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("ws client connected", zap.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.log.Debug("ws client disconnected", zap.Int("total", len(h.clients)))

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 慢客户端直接断开
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// BroadcastPredictions 广播一个成功的预测批次，尽力而为
func (h *Hub) BroadcastPredictions(predictions []ml.Prediction) {
	event := predictionEvent{
		Type:        "predictions",
		Timestamp:   time.Now(),
		Predictions: predictions,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode ws event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event")
	}
}

// ServeWS 升级连接并注册客户端
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, clientSendSize)}
	if !h.addClient(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

// addClient 注册客户端；广播循环已退出时返回false，避免升级协程被挂住
func (h *Hub) addClient(client *wsClient) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeClient(client *wsClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump 只用于感知客户端断开，服务端不处理入站消息
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		h.removeClient(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
