package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"aheyecare/internal/dbmysql"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(ctx context.Context, p *dbmysql.Product) error
	GetByID(ctx context.Context, id uint) (*dbmysql.Product, error)
	List(ctx context.Context) ([]*dbmysql.Product, error)
	Latest(ctx context.Context, limit int) ([]*dbmysql.Product, error)
	Similar(ctx context.Context, p *dbmysql.Product, limit int) ([]*dbmysql.Product, error)
	Search(ctx context.Context, query string, limit int) ([]*dbmysql.Product, error)
	Delete(ctx context.Context, id uint) (*dbmysql.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*dbmysql.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *dbmysql.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*dbmysql.Product, error) {
	var p dbmysql.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*dbmysql.Product, error) {
	var products []*dbmysql.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Latest(ctx context.Context, limit int) ([]*dbmysql.Product, error) {
	var products []*dbmysql.Product
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	return products, nil
}

// Similar returns other products of the same type, newest first.
func (r *productRepository) Similar(ctx context.Context, p *dbmysql.Product, limit int) ([]*dbmysql.Product, error) {
	var products []*dbmysql.Product
	err := r.db.WithContext(ctx).
		Where("product_type = ? AND id <> ?", p.ProductType, p.ID).
		Order("id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list similar products: %w", err)
	}
	return products, nil
}

// Search matches names case-insensitively.
func (r *productRepository) Search(ctx context.Context, query string, limit int) ([]*dbmysql.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var products []*dbmysql.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("id").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Delete removes the product and returns the deleted row.
func (r *productRepository) Delete(ctx context.Context, id uint) (*dbmysql.Product, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&dbmysql.Product{}, id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return p, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) ([]*dbmysql.Product, error) {
	if len(ids) == 0 {
		return []*dbmysql.Product{}, nil
	}
	var products []*dbmysql.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

