package service

import (
	"context"
	"errors"
	"fmt"

	"stock-ledger/internal/domain"
	"stock-ledger/internal/repository"
)

var (
	ErrInvalidPrice = errors.New("price must be non-negative")

	// ErrStatusQuantityMismatch is returned when a caller asks for a
	// status that contradicts the quantity, e.g. FOR_SALE with zero stock.
	ErrStatusQuantityMismatch = errors.New("status is inconsistent with quantity")
)

// ProductUpdate carries the fields of a partial product update. Nil fields
// keep their current values.
type ProductUpdate struct {
	Name     *string
	Price    *float64
	Quantity *int
	Status   *domain.ProductStatus
}

// ProductService defines the interface for product catalog logic. Stock
// movements on behalf of purchases go through the InventoryService, not here.
type ProductService interface {
	Create(ctx context.Context, name string, price float64, quantity int, status domain.ProductStatus) (*domain.Product, error)
	Update(ctx context.Context, id int64, update ProductUpdate) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

type productService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	tx           repository.TxManager
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository, transactions repository.TransactionRepository, tx repository.TxManager) ProductService {
	return &productService{products: products, transactions: transactions, tx: tx}
}

// Create adds a new product to the catalog. An empty status defaults to the
// one matching the quantity; an explicit status must agree with it.
func (s *productService) Create(ctx context.Context, name string, price float64, quantity int, status domain.ProductStatus) (*domain.Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidPrice, price)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	resolved, err := resolveStatus(status, quantity)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Status:   resolved,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update applies a partial update to a product's catalog attributes while
// keeping the quantity/status pair consistent. The read and the write run
// under the same row lock so a rename cannot write back stock that a
// concurrent purchase reserved in between.
func (s *productService) Update(ctx context.Context, id int64, update ProductUpdate) (*domain.Product, error) {
	var product *domain.Product

	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		products := r.Products()

		var err error
		product, err = products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			product.Name = *update.Name
		}
		if update.Price != nil {
			if *update.Price < 0 {
				return fmt.Errorf("%w: got %f", ErrInvalidPrice, *update.Price)
			}
			product.Price = *update.Price
		}
		if update.Quantity != nil {
			if *update.Quantity < 0 {
				return fmt.Errorf("%w: got %d", ErrInvalidQuantity, *update.Quantity)
			}
			product.Quantity = *update.Quantity
		}

		if update.Status != nil {
			product.Status, err = resolveStatus(*update.Status, product.Quantity)
		} else {
			product.Status = domain.StatusForQuantity(product.Quantity)
		}
		if err != nil {
			return err
		}

		return products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// GetByID retrieves a product with its purchase history attached
func (s *productService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product.Transactions, err = s.transactions.ListByProduct(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load product transactions: %w", err)
	}

	return product, nil
}

// List retrieves all products with their purchase histories attached
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	for _, product := range products {
		if product.Transactions, err = s.transactions.ListByProduct(ctx, product.ID); err != nil {
			return nil, fmt.Errorf("failed to load product transactions: %w", err)
		}
	}

	return products, nil
}

// resolveStatus reconciles a requested status with the quantity it must
// describe. Empty means "derive from quantity".
func resolveStatus(status domain.ProductStatus, quantity int) (domain.ProductStatus, error) {
	derived := domain.StatusForQuantity(quantity)
	if status == "" {
		return derived, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrStatusQuantityMismatch, status)
	}
	if status != derived {
		return "", fmt.Errorf("%w: %s with quantity %d", ErrStatusQuantityMismatch, status, quantity)
	}
	return status, nil
}
