package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourname/lifetrack/internal"
)

const progressWriteWait = 5 * time.Second

// ProgressHub fans import progress out to a user's open websocket
// connections. A user with no open connection loses frames silently; the
// import itself never blocks on a slow or absent subscriber.
type ProgressHub struct {
	mu     sync.RWMutex
	conns  map[string]map[*websocket.Conn]struct{}
	logger internal.Logger
}

func NewProgressHub(logger internal.Logger) *ProgressHub {
	return &ProgressHub{
		conns:  make(map[string]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

func (h *ProgressHub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *ProgressHub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Publish sends one percent frame to every connection the user holds.
// Connections that fail to accept the write are closed and dropped.
func (h *ProgressHub) Publish(userID string, percent int) {
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	frame := map[string]int{"percent": percent}
	for _, conn := range targets {
		conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Warnf("progress write failed, dropping subscriber: %v", err)
			conn.Close()
			h.remove(userID, conn)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GetImportProgress upgrades the request and streams progress frames for the
// authenticated user until the client disconnects.
func GetImportProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Websocket upgrade failed")
			return
		}

		hub := app.Progress()
		hub.add(user.ID, conn)
		defer func() {
			hub.remove(user.ID, conn)
			conn.Close()
		}()

		// Reads are discarded; the loop exists to notice the close frame.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
