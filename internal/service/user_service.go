package service

import (
	"context"
	"fmt"

	"stock-ledger/internal/domain"
	"stock-ledger/internal/repository"
)

// UserService defines the interface for user business logic
type UserService interface {
	Create(ctx context.Context, name, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, name, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type userService struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(users repository.UserRepository, transactions repository.TransactionRepository) UserService {
	return &userService{users: users, transactions: transactions}
}

// Create registers a new user. Email must be unique.
func (s *userService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	user := &domain.User{
		Name:  name,
		Email: email,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update changes a user's name and email. Absent fields keep their
// current values; the email stays unique across users.
func (s *userService) Update(ctx context.Context, id int64, name, email string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user with their purchase history attached
func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Transactions, err = s.transactions.ListByUser(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load user transactions: %w", err)
	}

	return user, nil
}

// List retrieves all users with their purchase histories attached
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		if user.Transactions, err = s.transactions.ListByUser(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to load user transactions: %w", err)
		}
	}

	return users, nil
}
