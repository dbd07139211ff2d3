package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/agromarket/internal/auth"
	"github.com/nurpe/agromarket/internal/model"
	"github.com/nurpe/agromarket/internal/store"
)

type PDFGenerator interface {
	Generate(doc model.ContractDocument) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(report model.ContractsReport) ([]byte, error)
}

// MarketService holds the marketplace business rules: registration and
// login, farmer product listings, the buyer/farmer contract workflow,
// direct messages and contract exports.
type MarketService struct {
	store  store.Store
	tokens *auth.Manager
	pdf    PDFGenerator
	excel  ExcelGenerator
}

func NewMarketService(st store.Store, tokens *auth.Manager, pdf PDFGenerator, excel ExcelGenerator) *MarketService {
	return &MarketService{
		store:  st,
		tokens: tokens,
		pdf:    pdf,
		excel:  excel,
	}
}

type RegisterInput struct {
	Username    string
	Password    string
	Role        string
	FullName    string
	Email       string
	PhoneNumber *string
}

type AuthResult struct {
	User  *model.User
	Token string
}

func (s *MarketService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role, ok := model.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be farmer or buyer", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: fullName and email are required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, store.NewUser{
		Username:    strings.TrimSpace(input.Username),
		Password:    hash,
		Role:        role,
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *MarketService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *MarketService) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	user, err := s.store.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *MarketService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *MarketService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.ListProducts(ctx)
}

type CreateProductInput struct {
	Principal   model.Principal
	Name        string
	Description string
	Quantity    string
	Unit        string
	Price       string
}

func (s *MarketService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	if !input.Principal.IsFarmer() {
		return nil, fmt.Errorf("%w: only farmers can create products", ErrPermissionDenied)
	}
	if input.Name == "" || input.Description == "" || input.Quantity == "" ||
		input.Unit == "" || input.Price == "" {
		return nil, fmt.Errorf("%w: all product fields are required", ErrInvalidInput)
	}

	return s.store.CreateProduct(ctx, store.NewProduct{
		FarmerID:    input.Principal.UserID,
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Price:       input.Price,
		Status:      model.ProductStatusAvailable,
	})
}

type CreateContractInput struct {
	Principal    model.Principal
	ProductID    int
	Quantity     string
	Price        string
	DeliveryDate time.Time
}

func (s *MarketService) CreateContract(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	if !input.Principal.IsBuyer() {
		return nil, fmt.Errorf("%w: only buyers can create contracts", ErrPermissionDenied)
	}
	if input.ProductID < 1 {
		return nil, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if input.Quantity == "" || input.Price == "" {
		return nil, fmt.Errorf("%w: quantity and price are required", ErrInvalidInput)
	}
	if input.DeliveryDate.IsZero() {
		return nil, fmt.Errorf("%w: deliveryDate is required", ErrInvalidInput)
	}

	contract, err := s.store.CreateContract(ctx, store.NewContract{
		BuyerID:      input.Principal.UserID,
		ProductID:    input.ProductID,
		Quantity:     input.Quantity,
		Price:        input.Price,
		DeliveryDate: input.DeliveryDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		case errors.Is(err, store.ErrProductUnavailable):
			return nil, fmt.Errorf("%w: this product is not available for contracts", ErrInvalidInput)
		default:
			return nil, err
		}
	}
	return contract, nil
}

func (s *MarketService) ListContracts(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	return s.store.ListContractsByUser(ctx, principal.UserID)
}

type UpdateContractInput struct {
	Principal  model.Principal
	ContractID int
	Status     string
}

func (s *MarketService) UpdateContractStatus(ctx context.Context, input UpdateContractInput) (*model.Contract, error) {
	if !input.Principal.IsFarmer() {
		return nil, fmt.Errorf("%w: only farmers can update contracts", ErrPermissionDenied)
	}

	contract, err := s.store.GetContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: contract not found", ErrNotFound)
		}
		return nil, err
	}
	if contract.FarmerID != input.Principal.UserID {
		return nil, fmt.Errorf("%w: you can only update your own contracts", ErrPermissionDenied)
	}
	if contract.Status != model.ContractStatusPending {
		return nil, fmt.Errorf("%w: only pending contracts can be updated", ErrInvalidInput)
	}

	status := model.ContractStatus(input.Status)
	if status != model.ContractStatusAccepted && status != model.ContractStatusRejected {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	return s.store.UpdateContractStatus(ctx, input.ContractID, status)
}

type SendMessageInput struct {
	Principal  model.Principal
	ReceiverID int
	Content    string
}

func (s *MarketService) SendMessage(ctx context.Context, input SendMessageInput) (*model.Message, error) {
	if input.ReceiverID < 1 {
		return nil, fmt.Errorf("%w: receiverId is required", ErrInvalidInput)
	}
	if input.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	return s.store.CreateMessage(ctx, store.NewMessage{
		SenderID:   input.Principal.UserID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
	})
}

func (s *MarketService) Conversation(ctx context.Context, principal model.Principal, otherUserID int) ([]model.Message, error) {
	return s.store.ListMessagesBetween(ctx, principal.UserID, otherUserID)
}
