// Package hub tracks which connected chat clients belong to which room.
package hub

import (
	"fmt"
	"sort"
	"sync"

	"aheyecare/internal/chat"
	"aheyecare/internal/logging"
)

// Subscriber is one connected chat client.
type Subscriber interface {
	ID() string
	Name() string
	// Deliver queues payload for the client and reports whether it was
	// accepted. It must not block.
	Deliver(payload []byte) bool
}

// Registry maps rooms to their subscribers. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Subscriber // room -> subscriber id -> subscriber
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]Subscriber)}
}

// Join adds s to room and announces it to every member, s included.
func (r *Registry) Join(s Subscriber, room string) {
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]Subscriber)
		r.rooms[room] = members
	}
	members[s.ID()] = s
	r.mu.Unlock()

	l := logging.L()
	l.Info().Str(logging.FieldClientID, s.ID()).Str(logging.FieldRoom, room).Msg("client joined room")

	r.Broadcast(room, chat.MustEncode(chat.EventSystem, room, fmt.Sprintf("%s has joined the room", s.Name()), nil))
}

// Leave removes s from room and notifies the remaining members. Leaving a
// room s never joined does nothing.
func (r *Registry) Leave(s Subscriber, room string) {
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		r.mu.Unlock()
		return
	}
	if _, member := members[s.ID()]; !member {
		r.mu.Unlock()
		return
	}
	delete(members, s.ID())
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	r.mu.Unlock()

	l := logging.L()
	l.Info().Str(logging.FieldClientID, s.ID()).Str(logging.FieldRoom, room).Msg("client left room")

	r.Broadcast(room, chat.MustEncode(chat.EventSystem, room, fmt.Sprintf("%s has left the room", s.Name()), nil))
}

// Disconnect removes s from every room without notices. After it returns no
// Broadcast will deliver to s.
func (r *Registry) Disconnect(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, members := range r.rooms {
		delete(members, s.ID())
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Broadcast hands payload to every subscriber of room and returns how many
// accepted it. A subscriber with a full buffer misses the payload.
func (r *Registry) Broadcast(room string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for id, s := range r.rooms[room] {
		if s.Deliver(payload) {
			delivered++
			continue
		}
		l := logging.L()
		l.Warn().Str(logging.FieldClientID, id).Str(logging.FieldRoom, room).Msg("send buffer full, dropping message")
	}
	return delivered
}

// Members returns the ids of room's subscribers, sorted.
func (r *Registry) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rooms[room]))
	for id := range r.rooms[room] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsMember reports whether s is subscribed to room.
func (r *Registry) IsMember(s Subscriber, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[room][s.ID()]
	return ok
}

// Rooms returns the rooms with at least one subscriber, sorted.
func (r *Registry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.rooms))
	for room := range r.rooms {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}
