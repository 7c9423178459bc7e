// Package order turns carts into persisted orders and builds the admin
// dashboard over the storefront tables.
package order

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"aheyecare/internal/dbmysql"
)

type OrderRepository interface {
	Create(ctx context.Context, o *dbmysql.Order) error
	// List returns orders newest first.
	List(ctx context.Context) ([]*dbmysql.Order, error)
	TotalSales(ctx context.Context) (float64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *dbmysql.Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context) ([]*dbmysql.Order, error) {
	var orders []*dbmysql.Order
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&dbmysql.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum orders: %w", err)
	}
	return total, nil
}
