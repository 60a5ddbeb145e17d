package service

import (
	"context"
	"errors"
	"fmt"

	"stock-ledger/internal/domain"
	"stock-ledger/internal/repository"
)

// ErrStorageFailure marks errors where the atomic commit could not be
// durably applied. The unit is rolled back, so no partial state is left
// visible and the caller may retry the whole call.
var ErrStorageFailure = errors.New("storage failure during transaction commit")

// TransactionService orchestrates creation of a purchase transaction
// together with the inventory reservation as one unit of work
type TransactionService interface {
	Commit(ctx context.Context, userID, productID int64, quantity int) (*domain.Transaction, error)
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
}

type transactionService struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	inventory    InventoryService
	tx           repository.TxManager
}

// NewTransactionService creates a new instance of TransactionService
func NewTransactionService(
	users repository.UserRepository,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	inventory InventoryService,
	tx repository.TxManager,
) TransactionService {
	return &transactionService{
		users:        users,
		products:     products,
		transactions: transactions,
		inventory:    inventory,
		tx:           tx,
	}
}

// Commit records one purchase: it resolves the user and product, reserves
// stock through the inventory ledger, and persists the transaction record
// and the product's new quantity/status as a single atomic commit. On any
// failure no state is mutated.
func (s *transactionService) Commit(ctx context.Context, userID, productID int64, quantity int) (*domain.Transaction, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, repository.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, repository.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	transaction := &domain.Transaction{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}

	err = s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		product, err := s.inventory.Reserve(ctx, r.Products(), productID, quantity)
		if err != nil {
			return err
		}

		if err := r.Transactions().Create(ctx, transaction); err != nil {
			return err
		}

		transaction.User = user
		transaction.Product = product
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return transaction, nil
}

// GetByID retrieves a transaction with its user and product attached
func (s *transactionService) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	transaction, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// List retrieves all transactions with their users and products attached
func (s *transactionService) List(ctx context.Context) ([]*domain.Transaction, error) {
	transactions, err := s.transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// isDomainError reports whether err is one of the terminal domain failures
// detected before any mutation. Everything else that escapes the atomic unit
// is a storage failure.
func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrProductNotFound) ||
		errors.Is(err, ErrProductNotForSale) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidQuantity)
}
