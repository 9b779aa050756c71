package services

import (
	"context"
	"fmt"

	"Topup-Lunite/internal/models"
	"go.uber.org/zap"
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name  string `validate:"required,max=64"`
	Price int64  `validate:"gt=0"`
	Stock int    `validate:"gte=0"`
	Type  models.ProductType
}

// ProductUpdate changes only the fields that are set.
type ProductUpdate struct {
	Name  *string
	Price *int64
	Stock *int
}

func (s *Shop) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Field: "product", Message: "name is required, price must be positive and stock must not be negative"}
	}
	if in.Type == "" {
		in.Type = models.ProductTopup
	}
	if !in.Type.Valid() {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown product type %q", in.Type)}
	}
	p := &models.Product{
		ID:    NextID("P", s.snap.ProductIDs()),
		Name:  in.Name,
		Price: in.Price,
		Stock: in.Stock,
		Type:  in.Type,
	}
	s.snap.Products = append(s.snap.Products, p)
	if err := s.saveProducts(ctx); err != nil {
		return nil, err
	}
	s.log.Info("product added", zap.String("product_id", p.ID))
	return p, nil
}

func (s *Shop) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*models.Product, error) {
	p := s.snap.Product(id)
	if p == nil {
		return nil, ErrProductNotFound
	}
	if upd.Price != nil && *upd.Price <= 0 {
		return nil, &ValidationError{Field: "price", Message: "price must be positive"}
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, &ValidationError{Field: "stock", Message: "stock must not be negative"}
	}
	if upd.Name != nil && *upd.Name != "" {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if err := s.saveProducts(ctx); err != nil {
		return nil, err
	}
	s.log.Info("product updated", zap.String("product_id", p.ID))
	return p, nil
}

func (s *Shop) DeleteProduct(ctx context.Context, id string) error {
	if !s.snap.RemoveProduct(id) {
		return ErrProductNotFound
	}
	if err := s.saveProducts(ctx); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

// SetRole changes a user's role. Demoting a VIP to member clears the expiry.
func (s *Shop) SetRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}
	u := s.snap.UserByUsername(username)
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.Role = role
	if role == models.RoleMember {
		u.VIPExpiry = nil
	}
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// GrantPendingDays queues VIP days that start when the current tenure expires.
func (s *Shop) GrantPendingDays(ctx context.Context, username string, days int) (*models.User, error) {
	if days <= 0 {
		return nil, &ValidationError{Field: "days", Message: "days must be greater than 0"}
	}
	u := s.snap.UserByUsername(username)
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.PendingSubscriptionDays += days
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}
	return u, nil
}
