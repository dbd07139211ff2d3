package store

import (
	"context"
	"errors"
	"time"

	"github.com/nurpe/agromarket/internal/model"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrProductUnavailable = errors.New("product not available")
)

type NewUser struct {
	Username    string
	Password    string
	Role        model.Role
	FullName    string
	Email       string
	PhoneNumber *string
}

type NewProduct struct {
	FarmerID    int
	Name        string
	Description string
	Quantity    string
	Unit        string
	Price       string
	Status      model.ProductStatus
}

type NewContract struct {
	BuyerID      int
	ProductID    int
	Quantity     string
	Price        string
	DeliveryDate time.Time
}

type NewMessage struct {
	SenderID   int
	ReceiverID int
	Content    string
}

// Store owns all entity state. Ids are assigned per collection, start at
// 1 and are never reused.
//
// CreateContract is the one compound operation: it verifies the product
// is available, derives the farmer from the product, writes the pending
// contract and flips the product to pending as a single atomic step. Two
// concurrent attempts against one product must not both succeed.
type Store interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, in NewUser) (*model.User, error)

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, in NewProduct) (*model.Product, error)
	UpdateProductStatus(ctx context.Context, id int, status model.ProductStatus) (*model.Product, error)

	GetContract(ctx context.Context, id int) (*model.Contract, error)
	CreateContract(ctx context.Context, in NewContract) (*model.Contract, error)
	UpdateContractStatus(ctx context.Context, id int, status model.ContractStatus) (*model.Contract, error)
	ListContractsByUser(ctx context.Context, userID int) ([]model.Contract, error)

	CreateMessage(ctx context.Context, in NewMessage) (*model.Message, error)
	ListMessagesBetween(ctx context.Context, userA, userB int) ([]model.Message, error)
}
