package model

import "time"

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusPending   ProductStatus = "pending"
	// ProductStatusSold is part of the schema but no exposed operation
	// reaches it yet.
	ProductStatusSold ProductStatus = "sold"
)

// Quantity and Price are unit-bearing decimal strings; they are never
// parsed as floats on the server.
type Product struct {
	ID          int           `json:"id"`
	FarmerID    int           `json:"farmerId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Quantity    string        `json:"quantity"`
	Unit        string        `json:"unit"`
	Price       string        `json:"price"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}
