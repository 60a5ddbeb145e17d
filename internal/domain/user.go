package domain

import "time"

// User represents an identity that participates in transactions
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Purchase history, populated on reads that resolve it
	Transactions []*Transaction `json:"transactions,omitempty" db:"-"`
}
