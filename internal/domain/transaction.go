package domain

import "time"

// Transaction is an immutable record of one purchase event. Once created it
// is never updated or deleted; there is no cancellation or refund path.
type Transaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Resolved references, populated on reads that join the owning rows
	User    *User    `json:"user,omitempty" db:"-"`
	Product *Product `json:"product,omitempty" db:"-"`
}
