package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	"github.com/dmrtv/BSC-SchedulingService/internal/api/middleware"
	syncService "github.com/dmrtv/BSC-SchedulingService/internal/service/sync"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024

	// Буфер уведомлений на соединение. Переполнение означает, что клиент
	// не успевает читать; лишние уведомления отбрасываются отправителем,
	// клиент перечитает данные при переподключении
	notifyBuffer = 64

	msgMissingIdentity = "отсутствует идентификатор клиента или сотрудника"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// InvalidateEvent сообщение клиенту: перечисленные ключи кэша устарели
type InvalidateEvent struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

const eventInvalidate = "invalidate"

// Hub раздаёт уведомления об изменениях расписания по websocket.
// Каждое соединение оформляется подпиской на reconciler
type Hub struct {
	subscriber Subscriber
	logger     Logger
}

func NewHub(subscriber Subscriber, logger Logger) *Hub {
	return &Hub{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Handle GET /api/v1/ws
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.GetCustomerID(r.Context())
	staffID, _ := middleware.GetStaffID(r.Context())
	if customerID == 0 && staffID == 0 {
		h.logger.Warn("GET /ws - Missing subscriber identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("GET /ws - Upgrade failed: %v", err)
		return
	}

	notify := make(chan syncService.Notification, notifyBuffer)
	unsubscribe := h.subscriber.Subscribe(&syncService.Subscription{
		CustomerID: customerID,
		StaffID:    staffID,
		Notify:     notify,
	})

	h.logger.Info("GET /ws - Client connected: customer_id=%d, staff_id=%d", customerID, staffID)

	done := make(chan struct{})
	go h.writePump(conn, notify, done)
	h.readPump(conn)

	unsubscribe()
	close(done)
	conn.Close()
	h.logger.Info("GET /ws - Client disconnected: customer_id=%d, staff_id=%d", customerID, staffID)
}

// readPump блокируется до разрыва соединения. Входящие сообщения
// не несут смысла и отбрасываются
func (h *Hub) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, notify <-chan syncService.Notification, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case n := <-notify:
			keys := make([]string, 0, len(n.Keys))
			for _, k := range n.Keys {
				keys = append(keys, string(k))
			}
			payload, err := json.Marshal(InvalidateEvent{Type: eventInvalidate, Keys: keys})
			if err != nil {
				h.logger.Error("writePump: marshal failed: %v", err)
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
