package service

import (
	"context"
	"errors"
	"testing"

	"stock-ledger/internal/domain"
	"stock-ledger/internal/repository"
)

func newUserServiceWithStore() (UserService, *mockStore) {
	store := newMockStore()
	svc := NewUserService(
		&mockUserRepository{store: store},
		&mockTransactionRepository{store: store, transactions: store.transactions},
	)
	return svc, store
}

func TestUserUpdate_PartialFieldsKeepCurrentValues(t *testing.T) {
	svc, store := newUserServiceWithStore()
	store.addUser(1, "alice", "alice@example.com")

	user, err := svc.Update(context.Background(), 1, "", "alice@shop.example.com")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if user.Name != "alice" {
		t.Errorf("Expected name to be kept, got %q", user.Name)
	}
	if user.Email != "alice@shop.example.com" {
		t.Errorf("Expected email to be updated, got %q", user.Email)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	svc, _ := newUserServiceWithStore()

	_, err := svc.Update(context.Background(), 99, "ghost", "")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserGetByID_AttachesPurchaseHistory(t *testing.T) {
	svc, store := newUserServiceWithStore()
	store.addUser(1, "alice", "alice@example.com")
	store.addUser(2, "bob", "bob@example.com")
	store.transactions[1] = &domain.Transaction{ID: 1, UserID: 1, ProductID: 5, Quantity: 2}
	store.transactions[2] = &domain.Transaction{ID: 2, UserID: 2, ProductID: 5, Quantity: 1}
	store.transactions[3] = &domain.Transaction{ID: 3, UserID: 1, ProductID: 6, Quantity: 4}

	user, err := svc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if len(user.Transactions) != 2 {
		t.Fatalf("Expected 2 transactions attached, got %d", len(user.Transactions))
	}
	for _, tx := range user.Transactions {
		if tx.UserID != 1 {
			t.Errorf("Attached transaction belongs to user %d", tx.UserID)
		}
	}
}

func TestUserList_AttachesHistoryPerUser(t *testing.T) {
	svc, store := newUserServiceWithStore()
	store.addUser(1, "alice", "alice@example.com")
	store.addUser(2, "bob", "bob@example.com")
	store.transactions[1] = &domain.Transaction{ID: 1, UserID: 2, ProductID: 5, Quantity: 1}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}

	for _, user := range users {
		switch user.ID {
		case 1:
			if len(user.Transactions) != 0 {
				t.Errorf("Expected no transactions for user 1, got %d", len(user.Transactions))
			}
		case 2:
			if len(user.Transactions) != 1 {
				t.Errorf("Expected 1 transaction for user 2, got %d", len(user.Transactions))
			}
		}
	}
}
