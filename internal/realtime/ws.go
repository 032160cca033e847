package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware in front of
	// the upgrade request.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientOp is an inbound frame from the browser
type clientOp struct {
	Op      string `json:"op"`
	RoomID  uint   `json:"room_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ServeWS upgrades the request and runs the read/write pumps for one
// client. The user id must already be authenticated by middleware.
func (h *Hub) ServeWS(c echo.Context, userID uint) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{
		send:     make(chan []byte, sendBufferSize),
		channels: map[string]bool{UserChannel(userID): true},
	}
	h.register(cl)

	go h.writePump(conn, cl)
	h.readPump(conn, cl)
	return nil
}

func (h *Hub) readPump(conn *websocket.Conn, cl *client) {
	defer func() {
		h.unregister(cl)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var op clientOp
		if err := conn.ReadJSON(&op); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("realtime: websocket closed")
			}
			return
		}

		switch op.Op {
		case "joinChatRoom":
			h.join(cl, RoomChannel(op.RoomID))
		case "sendIsTyping":
			h.Broadcast(RoomChannel(op.RoomID), EventIsTyping, op.Payload)
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
