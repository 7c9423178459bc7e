package cart

import (
	"context"
	"fmt"
	"sort"

	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
)

// ProductLookup resolves cart lines to products.
type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []uint) ([]*dbmysql.Product, error)
}

// Line is one priced cart entry. Its JSON form is stored in orders.
type Line struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type Summary struct {
	Items []Line  `json:"items"`
	Total float64 `json:"total"`
	Count int     `json:"cart_count"`
}

type CartService interface {
	Summary(ctx context.Context, cartID string) (*Summary, error)
	Add(ctx context.Context, cartID string, productID uint) (*Summary, error)
	Remove(ctx context.Context, cartID string, productID uint) (*Summary, error)
	Clear(ctx context.Context, cartID string) error
}

type cartService struct {
	store    Store
	products ProductLookup
}

func NewCartService(store Store, products ProductLookup) CartService {
	return &cartService{store: store, products: products}
}

func (s *cartService) Summary(ctx context.Context, cartID string) (*Summary, error) {
	lines, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, common.Persistence("failed to load cart", err)
	}
	return s.price(ctx, lines)
}

func (s *cartService) Add(ctx context.Context, cartID string, productID uint) (*Summary, error) {
	found, err := s.products.FindByIDs(ctx, []uint{productID})
	if err != nil {
		return nil, common.Persistence("failed to load product", err)
	}
	if len(found) == 0 {
		return nil, common.NotFound(fmt.Sprintf("product %d not found", productID))
	}

	lines, err := s.store.Add(ctx, cartID, productID)
	if err != nil {
		return nil, common.Persistence("failed to update cart", err)
	}
	return s.price(ctx, lines)
}

func (s *cartService) Remove(ctx context.Context, cartID string, productID uint) (*Summary, error) {
	lines, err := s.store.Remove(ctx, cartID, productID)
	if err != nil {
		return nil, common.Persistence("failed to update cart", err)
	}
	return s.price(ctx, lines)
}

func (s *cartService) Clear(ctx context.Context, cartID string) error {
	if err := s.store.Clear(ctx, cartID); err != nil {
		return common.Persistence("failed to clear cart", err)
	}
	return nil
}

// price drops lines whose product no longer exists.
func (s *cartService) price(ctx context.Context, lines map[uint]int) (*Summary, error) {
	summary := &Summary{Items: []Line{}}
	if len(lines) == 0 {
		return summary, nil
	}

	ids := make([]uint, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Persistence("failed to load products", err)
	}

	for _, p := range products {
		qty := lines[p.ID]
		summary.Items = append(summary.Items, Line{ID: p.ID, Name: p.Name, Price: p.Price, Qty: qty})
		summary.Total += p.Price * float64(qty)
		summary.Count += qty
	}
	return summary, nil
}
