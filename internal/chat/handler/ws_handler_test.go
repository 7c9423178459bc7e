package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/chat"
	"aheyecare/internal/chat/repository"
	"aheyecare/internal/config"
)

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{
		SendBuffer:     16,
		MaxMessageSize: 4096,
		WriteWait:      time.Second,
		PongWait:       5 * time.Second,
		PingInterval:   4 * time.Second,
	}
}

func dial(t *testing.T, srv *httptest.Server, admin string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{}
	if admin != "" {
		header.Set(testAdminHeader, admin)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, ev chat.Event) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ev))
}

func next(t *testing.T, conn *websocket.Conn) chat.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var ev chat.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWS_JoinAndBroadcast(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	alice := dial(t, srv, "")
	bob := dial(t, srv, "")

	send(t, alice, chat.Event{Event: chat.EventJoin, Room: chat.MainRoom, Sender: "alice"})
	ev := next(t, alice)
	assert.Equal(t, chat.EventSystem, ev.Event)
	assert.Equal(t, "alice has joined the room", ev.Message)

	send(t, bob, chat.Event{Event: chat.EventJoin, Room: chat.MainRoom, Sender: "bob"})
	assert.Equal(t, "bob has joined the room", next(t, bob).Message)
	assert.Equal(t, "bob has joined the room", next(t, alice).Message)

	send(t, alice, chat.Event{Event: chat.EventMessage, Room: chat.MainRoom, Message: "any aviators?"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		ev := next(t, conn)
		assert.Equal(t, chat.EventMessage, ev.Event)
		assert.Contains(t, string(ev.Data), `"sender":"alice"`)
		assert.Contains(t, string(ev.Data), `"message_text":"any aviators?"`)
	}

	send(t, bob, chat.Event{Event: chat.EventLeave, Room: chat.MainRoom})
	assert.Equal(t, "bob has left the room", next(t, alice).Message)

	history, err := env.svc.ListMessages(t.Context(), repository.OrderAsc, chat.MainRoom)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWS_UnjoinedConnectionGetsNoBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	alice := dial(t, srv, "")
	lurker := dial(t, srv, "")

	// the connection is live: it answers pings
	send(t, lurker, chat.Event{Event: chat.EventPing})
	assert.Equal(t, chat.EventPong, next(t, lurker).Event)

	send(t, alice, chat.Event{Event: chat.EventJoin, Room: chat.MainRoom, Sender: "alice"})
	next(t, alice)
	send(t, alice, chat.Event{Event: chat.EventMessage, Room: chat.MainRoom, Message: "hello room"})
	assert.Equal(t, chat.EventMessage, next(t, alice).Event)

	require.NoError(t, lurker.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, frame, err := lurker.ReadMessage()
	require.Error(t, err, "unexpected frame: %s", frame)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestWS_ErrorsGoToSenderOnly(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	alice := dial(t, srv, "")
	bob := dial(t, srv, "")
	send(t, alice, chat.Event{Event: chat.EventJoin, Sender: "alice"})
	next(t, alice)
	send(t, bob, chat.Event{Event: chat.EventJoin, Sender: "bob"})
	next(t, bob)
	next(t, alice)

	send(t, alice, chat.Event{Event: chat.EventMessage, Message: ""})
	ev := next(t, alice)
	assert.Equal(t, chat.EventError, ev.Event)
	assert.Equal(t, "message is required", ev.Message)

	send(t, alice, chat.Event{Event: chat.EventAdminMessage, Message: "let me in"})
	ev = next(t, alice)
	assert.Equal(t, chat.EventError, ev.Event)
	assert.Equal(t, "admin access required", ev.Message)

	send(t, alice, chat.Event{Event: chat.EventJoin, Room: chat.AdminRoom})
	assert.Equal(t, chat.EventError, next(t, alice).Event)

	send(t, bob, chat.Event{Event: chat.EventPing})
	assert.Equal(t, chat.EventPong, next(t, bob).Event, "bob must not see alice's errors")
}

func TestWS_AdminChannel(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	admin := dial(t, srv, "admin")
	user := dial(t, srv, "")
	send(t, user, chat.Event{Event: chat.EventJoin, Sender: "alice"})
	next(t, user)

	send(t, admin, chat.Event{Event: chat.EventAdminJoin})
	assert.Equal(t, "admin has joined the room", next(t, admin).Message)
	status := next(t, admin)
	assert.Equal(t, "admin_status", status.Message)

	send(t, admin, chat.Event{Event: chat.EventAdminMessage, Message: "back in five"})
	ev := next(t, admin)
	assert.Equal(t, chat.EventMessage, ev.Event)
	assert.Equal(t, chat.AdminRoom, ev.Room)

	send(t, user, chat.Event{Event: chat.EventPing})
	assert.Equal(t, chat.EventPong, next(t, user).Event, "admin traffic must not reach main")
}

func TestWS_MalformedAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dial(t, srv, "")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "malformed event", next(t, conn).Message)

	send(t, conn, chat.Event{Event: "dance"})
	ev := next(t, conn)
	assert.Equal(t, chat.EventError, ev.Event)
	assert.Equal(t, "unknown event: dance", ev.Message)
}

func TestWS_DisconnectCleansUp(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dial(t, srv, "")
	send(t, conn, chat.Event{Event: chat.EventJoin, Sender: "alice"})
	next(t, conn)
	require.Len(t, env.svc.Registry().Members(chat.MainRoom), 1)

	conn.Close()
	assert.Eventually(t, func() bool {
		return len(env.svc.Registry().Members(chat.MainRoom)) == 0 && env.ws.ConnectionCount() == 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWS_CloseDropsConnections(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dial(t, srv, "")
	send(t, conn, chat.Event{Event: chat.EventPing})
	next(t, conn)

	env.ws.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example")

	assert.True(t, checkOrigin(nil)(req))
	assert.True(t, checkOrigin([]string{"*"})(req))
	assert.False(t, checkOrigin([]string{"https://aheyecare.example"})(req))

	req.Header.Set("Origin", "https://AHeyeCare.example")
	assert.True(t, checkOrigin([]string{"https://aheyecare.example"})(req))
}
