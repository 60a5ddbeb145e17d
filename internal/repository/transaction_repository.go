package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock-ledger/internal/domain"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionRepository defines the interface for transaction data access.
// Transactions are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Transaction, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Transaction, error)
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a new transaction and fills in the generated id and timestamps
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, tx.UserID, tx.ProductID, tx.Quantity).Scan(
		&tx.ID,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

const transactionSelect = `
	SELECT t.id, t.user_id, t.product_id, t.quantity, t.created_at, t.updated_at,
	       u.id, u.name, u.email, u.created_at, u.updated_at,
	       p.id, p.name, p.price, p.quantity, p.status, p.created_at, p.updated_at
	FROM transactions t
	JOIN users u ON u.id = t.user_id
	JOIN products p ON p.id = t.product_id
`

func scanTransaction(scan func(dest ...any) error) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		User:    &domain.User{},
		Product: &domain.Product{},
	}
	err := scan(
		&tx.ID,
		&tx.UserID,
		&tx.ProductID,
		&tx.Quantity,
		&tx.CreatedAt,
		&tx.UpdatedAt,
		&tx.User.ID,
		&tx.User.Name,
		&tx.User.Email,
		&tx.User.CreatedAt,
		&tx.User.UpdatedAt,
		&tx.Product.ID,
		&tx.Product.Name,
		&tx.Product.Price,
		&tx.Product.Quantity,
		&tx.Product.Status,
		&tx.Product.CreatedAt,
		&tx.Product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// FindByID retrieves a transaction with its user and product attached
func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := transactionSelect + " WHERE t.id = $1"

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}

	return tx, nil
}

// ListByUser retrieves one user's transactions without resolving references
func (r *transactionRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.ProductID, &tx.Quantity, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// ListByProduct retrieves one product's transactions without resolving references
func (r *transactionRepository) ListByProduct(ctx context.Context, productID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM transactions
		WHERE product_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for product: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.ProductID, &tx.Quantity, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// List retrieves all transactions with their users and products attached
func (r *transactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	query := transactionSelect + " ORDER BY t.id ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
