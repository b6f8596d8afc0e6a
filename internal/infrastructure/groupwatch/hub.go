package groupwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// RoomMessage is the wire format exchanged inside a group watch room.
type RoomMessage struct {
	Type    string          `json:"type"`
	UserID  domain.UserID   `json:"user_id,omitempty"`
	Room    domain.MediaID  `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SyncPayload carries playback position updates between room members.
type SyncPayload struct {
	Position float64 `json:"position"`
	Paused   bool    `json:"paused"`
}

// roomConn serializes writes to one websocket. Pings from the per-member
// loop and broadcasts from other members land on the same connection, and
// gorilla/websocket allows only one writer at a time.
type roomConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (rc *roomConn) writeJSON(timeout time.Duration, v interface{}) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.ws.SetWriteDeadline(time.Now().Add(timeout))
	return rc.ws.WriteJSON(v)
}

func (rc *roomConn) ping(timeout time.Duration) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.ws.SetWriteDeadline(time.Now().Add(timeout))
	return rc.ws.WriteMessage(websocket.PingMessage, nil)
}

// Hub owns group watch rooms: membership, the websocket fanout, and the
// authorization gate. It implements ports.RoomService so the session
// lifecycle can join server-side before the socket attaches.
type Hub struct {
	auths   map[domain.MediaID]string
	members map[domain.MediaID]map[domain.UserID]struct{}
	sockets map[domain.MediaID]map[domain.UserID]*roomConn
	mu      sync.RWMutex

	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration

	logger *zap.SugaredLogger
}

func NewHub(pingInterval, pongTimeout time.Duration, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		auths:        make(map[domain.MediaID]string),
		members:      make(map[domain.MediaID]map[domain.UserID]struct{}),
		sockets:      make(map[domain.MediaID]map[domain.UserID]*roomConn),
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		writeTimeout: 10 * time.Second,
		logger:       logger,
	}
}

var _ ports.RoomService = (*Hub)(nil)

// RegisterRoom opens a room for the given media with its admission token.
func (h *Hub) RegisterRoom(room domain.MediaID, auth string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.auths[room] = auth
}

func (h *Hub) Connected(userID domain.UserID, room domain.MediaID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.members[room]
	if !ok {
		return false
	}
	_, connected := users[userID]
	return connected
}

// OpenSession admits a user into a room. Joining an already joined room is
// an error; the lifecycle checks Connected first.
func (h *Hub) OpenSession(ctx context.Context, userID domain.UserID, ref domain.RoomRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	auth, ok := h.auths[ref.ID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if auth != ref.Auth {
		return fmt.Errorf("room %s rejected authorization", ref.ID)
	}

	users, ok := h.members[ref.ID]
	if !ok {
		users = make(map[domain.UserID]struct{})
		h.members[ref.ID] = users
	}
	if _, exists := users[userID]; exists {
		return domain.ErrAlreadyConnected
	}
	users[userID] = struct{}{}

	h.broadcastLocked(ref.ID, RoomMessage{Type: "joined", UserID: userID, Room: ref.ID}, userID)
	return nil
}

// Leave removes a user from a room and tells the remaining members.
func (h *Hub) Leave(userID domain.UserID, room domain.MediaID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	users, ok := h.members[room]
	if !ok {
		return
	}
	if _, exists := users[userID]; !exists {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(h.members, room)
	}

	h.broadcastLocked(room, RoomMessage{Type: "left", UserID: userID, Room: room}, userID)
}

// HandleWebSocket attaches a member's socket to its room. The caller must
// already be admitted via OpenSession; identity and room come from query
// parameters validated upstream by the auth middleware.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID domain.UserID, room domain.MediaID) {
	if !h.Connected(userID, room) {
		http.Error(w, "not a room member", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	rc := &roomConn{ws: conn}

	h.mu.Lock()
	socks, ok := h.sockets[room]
	if !ok {
		socks = make(map[domain.UserID]*roomConn)
		h.sockets[room] = socks
	}
	old, isReconnect := socks[userID]
	if isReconnect && old != nil {
		old.ws.Close()
		h.logger.Infow("closing old connection for reconnecting member", "user_id", userID, "room", room)
	}
	socks[userID] = rc
	h.mu.Unlock()

	h.logger.Infow("member connected to room", "user_id", userID, "room", room, "reconnect", isReconnect)

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})

	pingTicker := time.NewTicker(h.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan RoomMessage, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var msg RoomMessage
			if err := conn.ReadJSON(&msg); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
			messageChan <- msg
		}
	}()

	for {
		select {
		case msg := <-messageChan:
			if err := h.handleMessage(userID, room, msg); err != nil {
				h.logger.Infow("error handling room message", "user_id", userID, "room", room, "error", err)
				h.sendError(rc, err.Error())
			}

		case <-pingTicker.C:
			if err := rc.ping(h.writeTimeout); err != nil {
				h.logger.Infow("error sending ping", "user_id", userID, "error", err)
				goto cleanup
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Infow("error reading room message", "user_id", userID, "error", err)
			}
			goto cleanup
		}
	}

cleanup:
	h.mu.Lock()
	if socks, ok := h.sockets[room]; ok && socks[userID] == rc {
		delete(socks, userID)
		if len(socks) == 0 {
			delete(h.sockets, room)
		}
	}
	h.mu.Unlock()

	h.Leave(userID, room)
	h.logger.Infow("member disconnected from room", "user_id", userID, "room", room)
}

func (h *Hub) handleMessage(userID domain.UserID, room domain.MediaID, msg RoomMessage) error {
	if msg.Type == "" {
		return fmt.Errorf("message type is required")
	}
	if msg.UserID != "" && msg.UserID != userID {
		return fmt.Errorf("user_id mismatch: expected %s, got %s", userID, msg.UserID)
	}

	switch msg.Type {
	case "sync", "chat":
		msg.UserID = userID
		msg.Room = room
		h.mu.RLock()
		h.broadcastLocked(room, msg, userID)
		h.mu.RUnlock()
		return nil
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// broadcastLocked writes to every connected member of room except exclude.
// Callers hold h.mu in at least read mode.
func (h *Hub) broadcastLocked(room domain.MediaID, msg RoomMessage, exclude domain.UserID) {
	socks, ok := h.sockets[room]
	if !ok {
		return
	}
	for uid, rc := range socks {
		if uid == exclude {
			continue
		}
		if err := rc.writeJSON(h.writeTimeout, msg); err != nil {
			h.logger.Infow("failed to deliver room message", "user_id", uid, "room", room, "error", err)
		}
	}
}

func (h *Hub) sendError(rc *roomConn, message string) {
	if err := rc.writeJSON(h.writeTimeout, RoomMessage{Type: "error", Payload: json.RawMessage(fmt.Sprintf("%q", message))}); err != nil {
		h.logger.Debugw("failed to send error to client", "error", err)
	}
}

// MemberCount reports how many users are admitted to a room.
func (h *Hub) MemberCount(room domain.MediaID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members[room])
}
