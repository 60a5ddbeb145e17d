package domain

import "time"

// ProductStatus is the displayed availability of a product
type ProductStatus string

const (
	ProductStatusForSale    ProductStatus = "FOR_SALE"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// Valid reports whether s is one of the known product statuses
func (s ProductStatus) Valid() bool {
	return s == ProductStatusForSale || s == ProductStatusOutOfStock
}

// Product represents a sellable inventory item.
// Quantity and Status always move together: status is OUT_OF_STOCK exactly
// when quantity is zero, and quantity never goes negative.
type Product struct {
	ID        int64         `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Price     float64       `json:"price" db:"price"`
	Quantity  int           `json:"quantity" db:"quantity"`
	Status    ProductStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`

	// Purchase history, populated on reads that resolve it
	Transactions []*Transaction `json:"transactions,omitempty" db:"-"`
}

// StatusForQuantity returns the status a product must carry at the given quantity
func StatusForQuantity(quantity int) ProductStatus {
	if quantity == 0 {
		return ProductStatusOutOfStock
	}
	return ProductStatusForSale
}
