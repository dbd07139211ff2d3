package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/agromarket/internal/model"
)

// GormStore implements Store on Postgres. The contract create-and-flip
// runs in a transaction with the product row locked, which is the
// durable equivalent of the memory store's single lock section.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type userRow struct {
	ID          int `gorm:"primaryKey"`
	Username    string
	Password    string
	Role        string
	FullName    string
	Email       string
	PhoneNumber *string
}

func (userRow) TableName() string { return "users" }

type productRow struct {
	ID          int `gorm:"primaryKey"`
	FarmerID    int
	Name        string
	Description string
	Quantity    string
	Unit        string
	Price       string
	Status      string
	CreatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

type contractRow struct {
	ID           int `gorm:"primaryKey"`
	BuyerID      int
	FarmerID     int
	ProductID    int
	Quantity     string
	Price        string
	Status       string
	DeliveryDate time.Time
	CreatedAt    time.Time
}

func (contractRow) TableName() string { return "contracts" }

type messageRow struct {
	ID         int `gorm:"primaryKey"`
	SenderID   int
	ReceiverID int
	Content    string
	CreatedAt  time.Time
}

func (messageRow) TableName() string { return "messages" }

func (s *GormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (s *GormStore) GetUser(ctx context.Context, id int) (*model.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	user := row.toModel()
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).First(&row, "username = ?", username).Error
	if err != nil {
		return nil, translate(err)
	}
	user := row.toModel()
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	row := userRow{
		Username:    in.Username,
		Password:    in.Password,
		Role:        string(in.Role),
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRow{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}

	user := row.toModel()
	return &user, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	product := row.toModel()
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, in NewProduct) (*model.Product, error) {
	row := productRow{
		FarmerID:    in.FarmerID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Price:       in.Price,
		Status:      string(in.Status),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	product := row.toModel()
	return &product, nil
}

func (s *GormStore) UpdateProductStatus(ctx context.Context, id int, status model.ProductStatus) (*model.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		row.Status = string(status)
		return tx.Model(&productRow{}).Where("id = ?", id).Update("status", row.Status).Error
	})
	if err != nil {
		return nil, err
	}
	product := row.toModel()
	return &product, nil
}

func (s *GormStore) GetContract(ctx context.Context, id int) (*model.Contract, error) {
	var row contractRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	contract := row.toModel()
	return &contract, nil
}

func (s *GormStore) CreateContract(ctx context.Context, in NewContract) (*model.Contract, error) {
	var row contractRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product productRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", in.ProductID).Error
		if err != nil {
			return translate(err)
		}
		if product.Status != string(model.ProductStatusAvailable) {
			return ErrProductUnavailable
		}

		row = contractRow{
			BuyerID:      in.BuyerID,
			FarmerID:     product.FarmerID,
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			Price:        in.Price,
			Status:       string(model.ContractStatusPending),
			DeliveryDate: in.DeliveryDate,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		return tx.Model(&productRow{}).Where("id = ?", product.ID).
			Update("status", string(model.ProductStatusPending)).Error
	})
	if err != nil {
		return nil, err
	}
	contract := row.toModel()
	return &contract, nil
}

func (s *GormStore) UpdateContractStatus(ctx context.Context, id int, status model.ContractStatus) (*model.Contract, error) {
	var row contractRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		row.Status = string(status)
		return tx.Model(&contractRow{}).Where("id = ?", id).Update("status", row.Status).Error
	})
	if err != nil {
		return nil, err
	}
	contract := row.toModel()
	return &contract, nil
}

func (s *GormStore) ListContractsByUser(ctx context.Context, userID int) ([]model.Contract, error) {
	var rows []contractRow
	err := s.db.WithContext(ctx).
		Where("buyer_id = ? OR farmer_id = ?", userID, userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}

func (s *GormStore) CreateMessage(ctx context.Context, in NewMessage) (*model.Message, error) {
	row := messageRow{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	message := row.toModel()
	return &message, nil
}

func (s *GormStore) ListMessagesBetween(ctx context.Context, userA, userB int) ([]model.Message, error) {
	var rows []messageRow
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toModel())
	}
	return messages, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r userRow) toModel() model.User {
	return model.User{
		ID:          r.ID,
		Username:    r.Username,
		Password:    r.Password,
		Role:        model.Role(r.Role),
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		FarmerID:    r.FarmerID,
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		Price:       r.Price,
		Status:      model.ProductStatus(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func (r contractRow) toModel() model.Contract {
	return model.Contract{
		ID:           r.ID,
		BuyerID:      r.BuyerID,
		FarmerID:     r.FarmerID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		Price:        r.Price,
		Status:       model.ContractStatus(r.Status),
		DeliveryDate: r.DeliveryDate,
		CreatedAt:    r.CreatedAt,
	}
}

func (r messageRow) toModel() model.Message {
	return model.Message{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}
