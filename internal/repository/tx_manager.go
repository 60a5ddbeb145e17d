package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRepos exposes repositories bound to one in-flight database transaction.
// Writes made through them become durable together on commit, or not at all.
type TxRepos interface {
	Products() ProductRepository
	Transactions() TransactionRepository
}

// TxManager is the single transactional boundary of the system. WithinTx
// begins a transaction, hands tx-bound repositories to fn, commits when fn
// returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

type txRepos struct {
	products     ProductRepository
	transactions TransactionRepository
}

func (r *txRepos) Products() ProductRepository         { return r.products }
func (r *txRepos) Transactions() TransactionRepository { return r.transactions }

type txManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over the given database handle
func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(r TxRepos) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
		}
	}()

	repos := &txRepos{
		products:     NewProductRepository(tx),
		transactions: NewTransactionRepository(tx),
	}

	return fn(repos)
}
