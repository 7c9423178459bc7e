package order

import (
	"context"

	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
)

type ProductLister interface {
	List(ctx context.Context) ([]*dbmysql.Product, error)
}

type ContactLister interface {
	List(ctx context.Context) ([]*dbmysql.ContactMessage, error)
}

type Dashboard struct {
	Products   []*dbmysql.Product        `json:"products"`
	Contacts   []*dbmysql.ContactMessage `json:"contact_messages"`
	Orders     []*dbmysql.Order          `json:"orders"`
	TotalSales float64                   `json:"total_sales"`
}

type DashboardService struct {
	orders   OrderRepository
	products ProductLister
	contacts ContactLister
}

func NewDashboardService(orders OrderRepository, products ProductLister, contacts ContactLister) *DashboardService {
	return &DashboardService{orders: orders, products: products, contacts: contacts}
}

// Load requires an admin context.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	if !common.IsAdmin(ctx) {
		return nil, common.Unauthorized("admin only")
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, common.Persistence("failed to list products", err)
	}
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, common.Persistence("failed to list contact messages", err)
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, common.Persistence("failed to list orders", err)
	}
	total, err := s.orders.TotalSales(ctx)
	if err != nil {
		return nil, common.Persistence("failed to sum orders", err)
	}

	d := &Dashboard{
		Products:   products,
		Contacts:   contacts,
		Orders:     orders,
		TotalSales: total,
	}
	if d.Products == nil {
		d.Products = []*dbmysql.Product{}
	}
	if d.Contacts == nil {
		d.Contacts = []*dbmysql.ContactMessage{}
	}
	if d.Orders == nil {
		d.Orders = []*dbmysql.Order{}
	}
	return d, nil
}
