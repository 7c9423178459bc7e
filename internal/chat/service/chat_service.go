package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aheyecare/internal/chat"
	"aheyecare/internal/chat/hub"
	"aheyecare/internal/chat/repository"
	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
	"aheyecare/internal/logging"
	"aheyecare/internal/storage"
)

// UploadPathPrefix is the public path attachments are served under.
const UploadPathPrefix = "/uploads/"

// ChatService is the chat relay: it persists messages and fans them out to
// the subscribers of their room.
type ChatService struct {
	repo     repository.ChatRepository
	registry *hub.Registry
	store    storage.Storage

	// mu serializes persist and broadcast so stored order equals delivery order.
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewChatService(repo repository.ChatRepository, registry *hub.Registry, store storage.Storage) *ChatService {
	return &ChatService{
		repo:     repo,
		registry: registry,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ChatService) Registry() *hub.Registry {
	return s.registry
}

func requireAdmin(ctx context.Context, room string) error {
	if room == chat.AdminRoom && !common.IsAdmin(ctx) {
		return common.Unauthorized("admin access required")
	}
	return nil
}

// Join subscribes c to room. The admin room is reserved for admins.
func (s *ChatService) Join(ctx context.Context, c hub.Subscriber, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return common.Validation("room is required")
	}
	if err := requireAdmin(ctx, room); err != nil {
		return err
	}
	s.registry.Join(c, room)
	return nil
}

// AdminJoin subscribes an admin to the admin room and announces the admin as online.
func (s *ChatService) AdminJoin(ctx context.Context, c hub.Subscriber) error {
	if !common.IsAdmin(ctx) {
		return common.Unauthorized("admin access required")
	}
	s.registry.Join(c, chat.AdminRoom)
	s.registry.Broadcast(chat.AdminRoom, chat.MustEncode(chat.EventSystem, chat.AdminRoom, "admin_status",
		map[string]interface{}{"status": "online", "admin": true}))
	return nil
}

func (s *ChatService) Leave(c hub.Subscriber, room string) {
	s.registry.Leave(c, strings.TrimSpace(room))
}

func (s *ChatService) Disconnect(c hub.Subscriber) {
	s.registry.Disconnect(c)
}

// PostMessage validates, persists and broadcasts a text message. Nothing is
// broadcast when persistence fails.
func (s *ChatService) PostMessage(ctx context.Context, room, sender, text string) (*dbmysql.ChatMessage, error) {
	room, sender, text = strings.TrimSpace(room), strings.TrimSpace(sender), strings.TrimSpace(text)
	if room == "" {
		return nil, common.Validation("room is required")
	}
	if sender == "" {
		return nil, common.Validation("sender is required")
	}
	if text == "" {
		return nil, common.Validation("message is required")
	}
	if err := requireAdmin(ctx, room); err != nil {
		return nil, err
	}

	return s.publish(ctx, &dbmysql.ChatMessage{
		SessionID:   room,
		Sender:      sender,
		MessageText: &text,
	})
}

func (s *ChatService) publish(ctx context.Context, msg *dbmysql.ChatMessage) (*dbmysql.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	msg.Timestamp = ts

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, common.Persistence("failed to save message", err)
	}
	s.last = ts

	payload, err := chat.Encode(chat.EventMessage, msg.SessionID, "", msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	n := s.registry.Broadcast(msg.SessionID, payload)

	logging.Ctx(ctx).Debug().
		Uint("message_id", msg.ID).
		Str(logging.FieldRoom, msg.SessionID).
		Int("delivered", n).
		Msg("chat message published")
	return msg, nil
}

// StoreAttachment saves file under a generated key and posts a message
// referencing it. An absent, empty or non-image/pdf file is rejected before
// anything is written.
func (s *ChatService) StoreAttachment(ctx context.Context, room, sender string, file io.Reader, filename string) (*dbmysql.ChatMessage, error) {
	room, sender = strings.TrimSpace(room), strings.TrimSpace(sender)
	if file == nil || strings.TrimSpace(filename) == "" {
		return nil, common.Validation("file is required")
	}
	if !common.AllowedAttachment(filename) {
		return nil, common.Validation("unsupported file type")
	}
	if room == "" {
		return nil, common.Validation("room is required")
	}
	if sender == "" {
		return nil, common.Validation("sender is required")
	}
	if err := requireAdmin(ctx, room); err != nil {
		return nil, err
	}

	br := bufio.NewReader(file)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.Validation("file is empty")
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}

	safeName := common.SanitizeFilename(filename)
	key := uuid.NewString() + strings.ToLower(filepath.Ext(safeName))

	if _, err := s.store.Write(ctx, key, br, common.ContentTypeFor(safeName)); err != nil {
		return nil, common.Persistence("failed to store file", err)
	}

	text := fmt.Sprintf("%s shared a file: %s", sender, filename)
	url := UploadPathPrefix + key
	name := filename

	msg, err := s.publish(ctx, &dbmysql.ChatMessage{
		SessionID:   room,
		Sender:      sender,
		MessageText: &text,
		FileURL:     &url,
		FileName:    &name,
	})
	if err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			logging.Ctx(ctx).Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned attachment")
		}
		return nil, err
	}
	return msg, nil
}

// ListMessages returns history ordered by timestamp then id. An empty room
// lists every room.
func (s *ChatService) ListMessages(ctx context.Context, order repository.Order, room string) ([]*dbmysql.ChatMessage, error) {
	if order != repository.OrderAsc && order != repository.OrderDesc {
		return nil, common.Validation(fmt.Sprintf("invalid order %q: must be asc or desc", order))
	}

	messages, err := s.repo.List(ctx, order, strings.TrimSpace(room))
	if err != nil {
		return nil, common.Persistence("failed to load messages", err)
	}
	if messages == nil {
		messages = []*dbmysql.ChatMessage{}
	}
	return messages, nil
}

// ClearAll deletes every stored message in every room. Admin only.
func (s *ChatService) ClearAll(ctx context.Context) (int64, error) {
	if !common.IsAdmin(ctx) {
		return 0, common.Unauthorized("admin access required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, common.Persistence("failed to clear messages", err)
	}

	admin, _ := common.AdminName(ctx)
	logging.Ctx(ctx).Info().Int64("deleted", n).Str("admin", admin).Msg("chat history cleared")
	return n, nil
}
