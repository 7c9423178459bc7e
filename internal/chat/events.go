// Package chat holds the room names and the JSON event envelope shared by
// the chat relay and its websocket transport.
package chat

import "encoding/json"

const (
	MainRoom  = "main"
	AdminRoom = "admin_chat"

	// AdminSender is the display name used for messages posted by the admin.
	AdminSender = "Admin"
)

// Client to server events.
const (
	EventJoin         = "join"
	EventLeave        = "leave"
	EventMessage      = "message"
	EventAdminJoin    = "admin_join"
	EventAdminMessage = "admin_message"
	EventPing         = "ping"
)

// Server to client events. EventMessage is used in both directions.
const (
	EventSystem = "system"
	EventError  = "error"
	EventPong   = "pong"
)

// Event is the envelope of every websocket frame.
type Event struct {
	Event   string          `json:"event"`
	Room    string          `json:"room,omitempty"`
	Sender  string          `json:"sender,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Encode marshals an outbound event. data, when non-nil, is marshalled into Data.
func Encode(event, room, message string, data interface{}) ([]byte, error) {
	ev := Event{Event: event, Room: room, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		ev.Data = raw
	}
	return json.Marshal(ev)
}

// MustEncode is Encode for payloads that cannot fail to marshal.
func MustEncode(event, room, message string, data interface{}) []byte {
	b, err := Encode(event, room, message, data)
	if err != nil {
		panic(err)
	}
	return b
}
