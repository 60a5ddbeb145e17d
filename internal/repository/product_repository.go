package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock-ledger/internal/domain"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this name already exists")

	// ErrStaleStock is returned when the guarded quantity update matched no
	// row, meaning the stock moved underneath us since it was read.
	ErrStaleStock = errors.New("product stock changed concurrently")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)

	// FindByIDForUpdate reads a product under a row lock. It only blocks
	// concurrent readers when the repository is bound to a transaction.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)

	// DecrementQuantity subtracts by from the stored quantity and derives
	// the matching status in the same statement, guarded so the row is
	// only touched when stock still covers the decrement. Returns the
	// quantity and status after the write.
	DecrementQuantity(ctx context.Context, id int64, by int) (int, domain.ProductStatus, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and fills in the generated id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, quantity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Quantity,
		product.Status,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update modifies an existing product's catalog attributes
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, quantity = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.Quantity,
		product.Status,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate retrieves a product by ID with SELECT ... FOR UPDATE.
// Reservations for the same product serialize on this lock until the
// surrounding transaction commits or rolls back.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findByID(ctx, id, true)
}

func (r *productRepository) findByID(ctx context.Context, id int64, forUpdate bool) (*domain.Product, error) {
	query := `
		SELECT id, name, price, quantity, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Quantity,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// DecrementQuantity persists a stock movement relative to the stored value,
// so the WHERE guard holds on its own even if a caller skipped the locking
// read. The status is derived from the post-decrement quantity in the same
// statement.
func (r *productRepository) DecrementQuantity(ctx context.Context, id int64, by int) (int, domain.ProductStatus, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2,
		    status = CASE WHEN quantity - $2 = 0 THEN 'OUT_OF_STOCK' ELSE 'FOR_SALE' END,
		    updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity, status
	`

	var (
		quantity int
		status   domain.ProductStatus
	)
	err := r.db.QueryRowContext(ctx, query, id, by).Scan(&quantity, &status)
	if err != nil {
		if err != sql.ErrNoRows {
			return 0, "", fmt.Errorf("failed to decrement product stock: %w", err)
		}

		exists, err := r.exists(ctx, id)
		if err != nil {
			return 0, "", err
		}
		if !exists {
			return 0, "", ErrProductNotFound
		}
		return 0, "", ErrStaleStock
	}

	return quantity, status, nil
}

func (r *productRepository) exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return found, nil
}

// List retrieves all products ordered by creation time
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price, quantity, status, created_at, updated_at
		FROM products
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Quantity,
			&product.Status,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
