package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	b, err := Encode(EventSystem, MainRoom, "alice has joined the room", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"system","room":"main","message":"alice has joined the room"}`, string(b))
}

func TestEncode_WithData(t *testing.T) {
	b := MustEncode(EventMessage, AdminRoom, "", map[string]int{"id": 7})

	var ev Event
	require.NoError(t, json.Unmarshal(b, &ev))
	assert.Equal(t, EventMessage, ev.Event)
	assert.Equal(t, AdminRoom, ev.Room)
	assert.JSONEq(t, `{"id":7}`, string(ev.Data))
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := Encode(EventMessage, MainRoom, "", make(chan int))
	assert.Error(t, err)
	assert.Panics(t, func() { MustEncode(EventMessage, MainRoom, "", make(chan int)) })
}
