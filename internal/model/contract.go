package model

import "time"

type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "pending"
	ContractStatusAccepted ContractStatus = "accepted"
	ContractStatusRejected ContractStatus = "rejected"
	// ContractStatusCompleted is part of the schema but no exposed
	// operation reaches it yet.
	ContractStatusCompleted ContractStatus = "completed"
)

// FarmerID is always derived from the referenced product at creation
// time, never taken from the client.
type Contract struct {
	ID           int            `json:"id"`
	BuyerID      int            `json:"buyerId"`
	FarmerID     int            `json:"farmerId"`
	ProductID    int            `json:"productId"`
	Quantity     string         `json:"quantity"`
	Price        string         `json:"price"`
	Status       ContractStatus `json:"status"`
	DeliveryDate time.Time      `json:"deliveryDate"`
	CreatedAt    time.Time      `json:"createdAt"`
}
