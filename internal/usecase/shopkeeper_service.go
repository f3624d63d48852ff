package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/grosnap/backend/internal/domain"
)

// ShopkeeperService manages a shopkeeper's own products
type ShopkeeperService struct {
	catalog domain.Catalog
}

// NewShopkeeperService creates a new shopkeeper service
func NewShopkeeperService(catalog domain.Catalog) *ShopkeeperService {
	return &ShopkeeperService{catalog: catalog}
}

// AddProduct adds p to the shop owned by actorID
func (s *ShopkeeperService) AddProduct(ctx context.Context, actorID int64, p domain.Product) (domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	if err := s.authorize(ctx, actorID, p.ShopID); err != nil {
		return domain.Product{}, err
	}

	p.Name = strings.TrimSpace(p.Name)
	id, err := s.catalog.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	p.ID = id
	return p, nil
}

// UpdateProduct replaces the editable fields of product id.
// The product stays in its current shop.
func (s *ShopkeeperService) UpdateProduct(ctx context.Context, actorID, id int64, p domain.Product) (domain.Product, error) {
	existing, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.authorize(ctx, actorID, existing.ShopID); err != nil {
		return domain.Product{}, err
	}

	p.ID = existing.ID
	p.ShopID = existing.ShopID
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	p.Name = strings.TrimSpace(p.Name)

	if err := s.catalog.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes product id from the actor's shop
func (s *ShopkeeperService) DeleteProduct(ctx context.Context, actorID, id int64) error {
	existing, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, existing.ShopID); err != nil {
		return err
	}
	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// authorize checks that actorID owns shopID
func (s *ShopkeeperService) authorize(ctx context.Context, actorID, shopID int64) error {
	if actorID <= 0 {
		return fmt.Errorf("%w: shopkeeper identity required", domain.ErrUnauthorized)
	}
	owner, err := s.catalog.GetShopOwner(ctx, shopID)
	if err != nil {
		return err
	}
	if owner.ID != actorID {
		return fmt.Errorf("%w: shop %d is not owned by shopkeeper %d", domain.ErrUnauthorized, shopID, actorID)
	}
	return nil
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	if p.ShopID <= 0 {
		return fmt.Errorf("%w: shop id is required", domain.ErrInvalidInput)
	}
	return nil
}
