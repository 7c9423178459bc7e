package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
)

// Order is the direction of a history listing.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts "asc" or "desc" in any case. An empty value means asc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	default:
		return "", common.Validation(fmt.Sprintf("invalid order %q: must be asc or desc", s))
	}
}

//go:generate mockgen -destination=../mocks/mock_chat_repository.go -package=mocks aheyecare/internal/chat/repository ChatRepository

type ChatRepository interface {
	Save(ctx context.Context, msg *dbmysql.ChatMessage) error
	// List returns the messages of room ordered by timestamp then id. An
	// empty room lists every room.
	List(ctx context.Context, order Order, room string) ([]*dbmysql.ChatMessage, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Save(ctx context.Context, msg *dbmysql.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *chatRepo) List(ctx context.Context, order Order, room string) ([]*dbmysql.ChatMessage, error) {
	desc := order == OrderDesc

	query := r.db.WithContext(ctx).Model(&dbmysql.ChatMessage{})
	if room != "" {
		query = query.Where("session_id = ?", room)
	}

	var messages []*dbmysql.ChatMessage
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

func (r *chatRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&dbmysql.ChatMessage{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete chat messages: %w", result.Error)
	}
	return result.RowsAffected, nil
}
