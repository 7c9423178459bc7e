package order

import (
	"context"
	"encoding/json"
	"strings"

	"aheyecare/internal/cart"
	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
	"aheyecare/internal/logging"
)

type CheckoutInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderService interface {
	Summary(ctx context.Context, cartID string) (*cart.Summary, error)
	Checkout(ctx context.Context, cartID string, in CheckoutInput) (*dbmysql.Order, error)
}

type orderService struct {
	repo  OrderRepository
	carts cart.CartService
}

func NewOrderService(repo OrderRepository, carts cart.CartService) OrderService {
	return &orderService{repo: repo, carts: carts}
}

func (s *orderService) Summary(ctx context.Context, cartID string) (*cart.Summary, error) {
	return s.carts.Summary(ctx, cartID)
}

func (s *orderService) Checkout(ctx context.Context, cartID string, in CheckoutInput) (*dbmysql.Order, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Address == "" {
		return nil, common.Validation("name, email, phone and address are required")
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, common.Validation(err.Error())
	}

	summary, err := s.carts.Summary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, common.Validation("cart is empty")
	}

	items, err := json.Marshal(summary.Items)
	if err != nil {
		return nil, common.Persistence("failed to encode order items", err)
	}

	o := &dbmysql.Order{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Items:   string(items),
		Total:   summary.Total,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, common.Persistence("failed to save order", err)
	}

	// the order is already stored, so a clear failure is only logged
	if err := s.carts.Clear(ctx, cartID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Uint("order_id", o.ID).Msg("failed to clear cart after checkout")
	}
	return o, nil
}
