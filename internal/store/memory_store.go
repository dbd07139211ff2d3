package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nurpe/agromarket/internal/model"
)

// MemoryStore keeps every collection in a plain map guarded by one
// mutex. It is the default backend and the one the test suite runs
// against; GormStore provides the same contract on Postgres.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int]model.User
	products  map[int]model.Product
	contracts map[int]model.Contract
	messages  map[int]model.Message

	nextUserID     int
	nextProductID  int
	nextContractID int
	nextMessageID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[int]model.User),
		products:       make(map[int]model.Product),
		contracts:      make(map[int]model.Contract),
		messages:       make(map[int]model.Message),
		nextUserID:     1,
		nextProductID:  1,
		nextContractID: 1,
		nextMessageID:  1,
	}
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == in.Username {
			return nil, ErrUsernameTaken
		}
	}

	user := model.User{
		ID:          s.nextUserID,
		Username:    in.Username,
		Password:    in.Password,
		Role:        in.Role,
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, in NewProduct) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := model.Product{
		ID:          s.nextProductID,
		FarmerID:    in.FarmerID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Price:       in.Price,
		Status:      in.Status,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextProductID++
	s.products[product.ID] = product
	return &product, nil
}

func (s *MemoryStore) UpdateProductStatus(ctx context.Context, id int, status model.ProductStatus) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	product.Status = status
	s.products[id] = product
	return &product, nil
}

func (s *MemoryStore) GetContract(ctx context.Context, id int) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &contract, nil
}

// CreateContract runs the availability check, the contract insert and
// the product status flip under one lock section, so a product can back
// at most one contract.
func (s *MemoryStore) CreateContract(ctx context.Context, in NewContract) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[in.ProductID]
	if !ok {
		return nil, ErrNotFound
	}
	if product.Status != model.ProductStatusAvailable {
		return nil, ErrProductUnavailable
	}

	contract := model.Contract{
		ID:           s.nextContractID,
		BuyerID:      in.BuyerID,
		FarmerID:     product.FarmerID,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Status:       model.ContractStatusPending,
		DeliveryDate: in.DeliveryDate,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextContractID++
	s.contracts[contract.ID] = contract

	product.Status = model.ProductStatusPending
	s.products[product.ID] = product

	return &contract, nil
}

func (s *MemoryStore) UpdateContractStatus(ctx context.Context, id int, status model.ContractStatus) (*model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	contract.Status = status
	s.contracts[id] = contract
	return &contract, nil
}

func (s *MemoryStore) ListContractsByUser(ctx context.Context, userID int) ([]model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contracts := make([]model.Contract, 0)
	for _, contract := range s.contracts {
		if contract.BuyerID == userID || contract.FarmerID == userID {
			contracts = append(contracts, contract)
		}
	}
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].ID < contracts[j].ID })
	return contracts, nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, in NewMessage) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := model.Message{
		ID:         s.nextMessageID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextMessageID++
	s.messages[message.ID] = message
	return &message, nil
}

func (s *MemoryStore) ListMessagesBetween(ctx context.Context, userA, userB int) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]model.Message, 0)
	for _, message := range s.messages {
		if (message.SenderID == userA && message.ReceiverID == userB) ||
			(message.SenderID == userB && message.ReceiverID == userA) {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}
