package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"aheyecare/internal/chat"
	"aheyecare/internal/chat/service"
	"aheyecare/internal/common"
	"aheyecare/internal/config"
	"aheyecare/internal/logging"
)

// WSHandler upgrades /ws requests and dispatches chat events. Admin events
// are honoured only when the upgrade request passed the admin gate.
type WSHandler struct {
	svc      *service.ChatService
	cfg      config.ChatConfig
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewWSHandler(svc *service.ChatService, cfg config.ChatConfig, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		svc: svc,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		clients: make(map[*Client]struct{}),
	}
}

// checkOrigin allows any origin when the list is empty or contains "*".
func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// the request context ends when ServeHTTP returns; keep its values only
	ctx := context.WithoutCancel(r.Context())
	c := NewClient(conn, common.IsAdmin(ctx), h.cfg)
	if name, ok := common.AdminName(ctx); ok {
		c.SetName(name)
	}

	h.track(c)
	logging.Ctx(ctx).Info().Str(logging.FieldClientID, c.ID()).Bool("admin", c.admin).Msg("websocket connected")

	go c.writePump()
	go func() {
		c.readPump(func(c *Client, raw []byte) { h.dispatch(ctx, c, raw) })
		h.svc.Disconnect(c)
		h.untrack(c)
		c.closeSend()
		logging.Ctx(ctx).Info().Str(logging.FieldClientID, c.ID()).Msg("websocket disconnected")
	}()
}

func (h *WSHandler) dispatch(ctx context.Context, c *Client, raw []byte) {
	var ev chat.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		h.sendError(c, common.Validation("malformed event"))
		return
	}
	c.SetName(strings.TrimSpace(ev.Sender))

	room := strings.TrimSpace(ev.Room)
	if room == "" {
		room = chat.MainRoom
	}

	var err error
	switch ev.Event {
	case chat.EventJoin:
		err = h.svc.Join(ctx, c, room)
	case chat.EventLeave:
		h.svc.Leave(c, room)
	case chat.EventMessage:
		_, err = h.svc.PostMessage(ctx, room, c.Name(), ev.Message)
	case chat.EventAdminJoin:
		if !c.admin {
			err = common.Unauthorized("admin access required")
			break
		}
		err = h.svc.AdminJoin(ctx, c)
	case chat.EventAdminMessage:
		if !c.admin {
			err = common.Unauthorized("admin access required")
			break
		}
		_, err = h.svc.PostMessage(ctx, chat.AdminRoom, chat.AdminSender, ev.Message)
	case chat.EventPing:
		c.Deliver(chat.MustEncode(chat.EventPong, "", "", nil))
	default:
		err = common.Validation("unknown event: " + ev.Event)
	}

	if err != nil {
		if !errors.Is(err, common.ErrValidation) && !errors.Is(err, common.ErrUnauthorized) {
			logging.Ctx(ctx).Error().Err(err).Str(logging.FieldClientID, c.ID()).Str("event", ev.Event).Msg("chat event failed")
		}
		h.sendError(c, err)
	}
}

// sendError reports err to c alone.
func (h *WSHandler) sendError(c *Client, err error) {
	c.Deliver(chat.MustEncode(chat.EventError, "", common.PublicMessage(err), nil))
}

func (h *WSHandler) track(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *WSHandler) untrack(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Close drops every open connection. Used on server shutdown.
func (h *WSHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

// ConnectionCount returns the number of open websocket connections.
func (h *WSHandler) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
