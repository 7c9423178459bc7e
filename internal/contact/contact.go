// Package contact stores messages sent through the storefront contact form.
package contact

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
)

type Repository interface {
	Create(ctx context.Context, m *dbmysql.ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context) ([]*dbmysql.ContactMessage, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *dbmysql.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*dbmysql.ContactMessage, error) {
	var msgs []*dbmysql.ContactMessage
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Service interface {
	Submit(ctx context.Context, in Input) (*dbmysql.ContactMessage, error)
	List(ctx context.Context) ([]*dbmysql.ContactMessage, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, in Input) (*dbmysql.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, common.Validation("name, email and message are required")
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, common.Validation(err.Error())
	}

	m := &dbmysql.ContactMessage{Name: in.Name, Email: in.Email, Message: in.Message}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, common.Persistence("failed to save contact message", err)
	}
	return m, nil
}

func (s *service) List(ctx context.Context) ([]*dbmysql.ContactMessage, error) {
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.Persistence("failed to list contact messages", err)
	}
	if msgs == nil {
		msgs = []*dbmysql.ContactMessage{}
	}
	return msgs, nil
}
