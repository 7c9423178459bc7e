package admin

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"aheyecare/internal/dbmysql"
)

var ErrAdminNotFound = errors.New("admin not found")

//go:generate mockgen -destination=mock_admin_repository.go -package=admin aheyecare/internal/admin AdminRepository

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*dbmysql.Admin, error)
	Create(ctx context.Context, admin *dbmysql.Admin) error
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*dbmysql.Admin, error) {
	var admin dbmysql.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *dbmysql.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&dbmysql.Admin{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
