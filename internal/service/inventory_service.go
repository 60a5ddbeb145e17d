package service

import (
	"context"
	"errors"
	"fmt"

	"stock-ledger/internal/domain"
	"stock-ledger/internal/repository"
)

var (
	ErrProductNotForSale = errors.New("product is not for sale")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
)

// InventoryService is the only writer of a product's quantity/status pair.
// It enforces that status is OUT_OF_STOCK exactly when quantity is zero and
// that quantity never goes negative.
type InventoryService interface {
	// Reserve checks availability and decrements stock for one purchase.
	// The products repository must be bound to the caller's transaction so
	// the locking read serializes reservations per product.
	Reserve(ctx context.Context, products repository.ProductRepository, productID int64, quantity int) (*domain.Product, error)
}

type inventoryService struct{}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService() InventoryService {
	return &inventoryService{}
}

// Reserve loads the product under a row lock, validates it is purchasable,
// and persists the decremented quantity with its matching status.
func (s *inventoryService) Reserve(ctx context.Context, products repository.ProductRepository, productID int64, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	product, err := products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, repository.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to load product for reservation: %w", err)
	}

	if product.Status != domain.ProductStatusForSale {
		return nil, fmt.Errorf("product %q: %w", product.Name, ErrProductNotForSale)
	}

	if quantity > product.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, product.Quantity)
	}

	newQuantity, newStatus, err := products.DecrementQuantity(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	product.Quantity = newQuantity
	product.Status = newStatus

	return product, nil
}
