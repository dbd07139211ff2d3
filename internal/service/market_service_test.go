package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nurpe/agromarket/internal/auth"
	"github.com/nurpe/agromarket/internal/excel"
	"github.com/nurpe/agromarket/internal/model"
	"github.com/nurpe/agromarket/internal/pdf"
	"github.com/nurpe/agromarket/internal/service"
	"github.com/nurpe/agromarket/internal/store"
)

func newService(t *testing.T) *service.MarketService {
	t.Helper()
	tokens := auth.NewManager("test-secret", time.Hour)
	return service.NewMarketService(store.NewMemoryStore(), tokens, pdf.NewGenerator(), excel.NewGenerator())
}

func register(t *testing.T, svc *service.MarketService, username, role string) *service.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), service.RegisterInput{
		Username: username,
		Password: "secret123",
		Role:     role,
		FullName: "Test " + username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return result
}

func createProduct(t *testing.T, svc *service.MarketService, farmer model.Principal) *model.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), service.CreateProductInput{
		Principal:   farmer,
		Name:        "Wheat",
		Description: "Winter wheat",
		Quantity:    "5",
		Unit:        "kg",
		Price:       "10.00",
	})
	require.NoError(t, err)
	return product
}

func principalOf(user *model.User) model.Principal {
	return model.Principal{UserID: user.ID, Role: user.Role}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("RegisterHashesPasswordAndIssuesToken", func(t *testing.T) {
		svc := newService(t)
		result := register(t, svc, "farmer1", "farmer")

		require.NotEmpty(t, result.Token)
		require.Equal(t, model.RoleFarmer, result.User.Role)
		require.NotEqual(t, "secret123", result.User.Password)
	})

	t.Run("RegisterRejectsUnknownRole", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Register(ctx, service.RegisterInput{
			Username: "x", Password: "secret123", Role: "admin",
			FullName: "X", Email: "x@example.com",
		})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("RegisterRejectsDuplicateUsername", func(t *testing.T) {
		svc := newService(t)
		register(t, svc, "farmer1", "farmer")
		_, err := svc.Register(ctx, service.RegisterInput{
			Username: "farmer1", Password: "secret123", Role: "buyer",
			FullName: "Dup", Email: "dup@example.com",
		})
		require.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("LoginChecksCredentials", func(t *testing.T) {
		svc := newService(t)
		register(t, svc, "farmer1", "farmer")

		result, err := svc.Login(ctx, "farmer1", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		_, err = svc.Login(ctx, "farmer1", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = svc.Login(ctx, "nobody", "secret123")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("StartsAvailableWithCallerAsFarmer", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")

		product := createProduct(t, svc, principalOf(farmer.User))
		require.Equal(t, model.ProductStatusAvailable, product.Status)
		require.Equal(t, farmer.User.ID, product.FarmerID)
	})

	t.Run("RejectsBuyers", func(t *testing.T) {
		svc := newService(t)
		buyer := register(t, svc, "buyer1", "buyer")

		_, err := svc.CreateProduct(ctx, service.CreateProductInput{
			Principal: principalOf(buyer.User),
			Name:      "Wheat", Description: "d", Quantity: "1", Unit: "kg", Price: "1.00",
		})
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("RejectsMissingFields", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")

		_, err := svc.CreateProduct(ctx, service.CreateProductInput{
			Principal: principalOf(farmer.User),
			Name:      "Wheat",
		})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestCreateContract(t *testing.T) {
	ctx := context.Background()
	delivery := time.Now().Add(72 * time.Hour)

	t.Run("PendingContractFlipsProduct", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")
		product := createProduct(t, svc, principalOf(farmer.User))

		contract, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(buyer.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: delivery,
		})
		require.NoError(t, err)
		require.Equal(t, model.ContractStatusPending, contract.Status)
		require.Equal(t, farmer.User.ID, contract.FarmerID)
		require.Equal(t, buyer.User.ID, contract.BuyerID)

		products, err := svc.ListProducts(ctx)
		require.NoError(t, err)
		require.Equal(t, model.ProductStatusPending, products[0].Status)
	})

	t.Run("RejectsFarmers", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		product := createProduct(t, svc, principalOf(farmer.User))

		_, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(farmer.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: delivery,
		})
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("MissingProductIsNotFound", func(t *testing.T) {
		svc := newService(t)
		buyer := register(t, svc, "buyer1", "buyer")

		_, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(buyer.User),
			ProductID:    99,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: delivery,
		})
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("SecondContractAgainstSameProductFails", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")
		rival := register(t, svc, "buyer2", "buyer")
		product := createProduct(t, svc, principalOf(farmer.User))

		_, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(buyer.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: delivery,
		})
		require.NoError(t, err)

		_, err = svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(rival.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: delivery,
		})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestUpdateContractStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.MarketService, *service.AuthResult, *service.AuthResult, *model.Contract) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")
		product := createProduct(t, svc, principalOf(farmer.User))

		contract, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(buyer.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: time.Now().Add(72 * time.Hour),
		})
		require.NoError(t, err)
		return svc, farmer, buyer, contract
	}

	t.Run("OwnerAccepts", func(t *testing.T) {
		svc, farmer, _, contract := setup(t)
		updated, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(farmer.User),
			ContractID: contract.ID,
			Status:     "accepted",
		})
		require.NoError(t, err)
		require.Equal(t, model.ContractStatusAccepted, updated.Status)
	})

	t.Run("OwnerRejects", func(t *testing.T) {
		svc, farmer, _, contract := setup(t)
		updated, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(farmer.User),
			ContractID: contract.ID,
			Status:     "rejected",
		})
		require.NoError(t, err)
		require.Equal(t, model.ContractStatusRejected, updated.Status)
	})

	t.Run("BuyerCannotUpdate", func(t *testing.T) {
		svc, _, buyer, contract := setup(t)
		_, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(buyer.User),
			ContractID: contract.ID,
			Status:     "accepted",
		})
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("ForeignFarmerCannotUpdate", func(t *testing.T) {
		svc, _, _, contract := setup(t)
		stranger := register(t, svc, "farmer2", "farmer")
		_, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(stranger.User),
			ContractID: contract.ID,
			Status:     "accepted",
		})
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("OnlyPendingContractsTransition", func(t *testing.T) {
		svc, farmer, _, contract := setup(t)
		_, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(farmer.User),
			ContractID: contract.ID,
			Status:     "accepted",
		})
		require.NoError(t, err)

		_, err = svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(farmer.User),
			ContractID: contract.ID,
			Status:     "rejected",
		})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("RejectsOtherTargetStatuses", func(t *testing.T) {
		for _, status := range []string{"completed", "pending", "bogus"} {
			svc, farmer, _, contract := setup(t)
			_, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
				Principal:  principalOf(farmer.User),
				ContractID: contract.ID,
				Status:     status,
			})
			require.ErrorIs(t, err, service.ErrInvalidInput)
		}
	})

	t.Run("MissingContractIsNotFound", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		_, err := svc.UpdateContractStatus(ctx, service.UpdateContractInput{
			Principal:  principalOf(farmer.User),
			ContractID: 42,
			Status:     "accepted",
		})
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("SendSetsSenderFromCaller", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")

		message, err := svc.SendMessage(ctx, service.SendMessageInput{
			Principal:  principalOf(buyer.User),
			ReceiverID: farmer.User.ID,
			Content:    "is the wheat still available?",
		})
		require.NoError(t, err)
		require.Equal(t, buyer.User.ID, message.SenderID)
	})

	t.Run("RejectsEmptyContent", func(t *testing.T) {
		svc := newService(t)
		buyer := register(t, svc, "buyer1", "buyer")
		_, err := svc.SendMessage(ctx, service.SendMessageInput{
			Principal:  principalOf(buyer.User),
			ReceiverID: 1,
		})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("ConversationIsSymmetric", func(t *testing.T) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")

		_, err := svc.SendMessage(ctx, service.SendMessageInput{
			Principal:  principalOf(buyer.User),
			ReceiverID: farmer.User.ID,
			Content:    "hello",
		})
		require.NoError(t, err)
		_, err = svc.SendMessage(ctx, service.SendMessageInput{
			Principal:  principalOf(farmer.User),
			ReceiverID: buyer.User.ID,
			Content:    "hi",
		})
		require.NoError(t, err)

		fromBuyer, err := svc.Conversation(ctx, principalOf(buyer.User), farmer.User.ID)
		require.NoError(t, err)
		fromFarmer, err := svc.Conversation(ctx, principalOf(farmer.User), buyer.User.ID)
		require.NoError(t, err)
		require.Equal(t, fromBuyer, fromFarmer)
		require.Len(t, fromBuyer, 2)
	})
}

func TestExports(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.MarketService, *service.AuthResult, *service.AuthResult, *model.Contract) {
		svc := newService(t)
		farmer := register(t, svc, "farmer1", "farmer")
		buyer := register(t, svc, "buyer1", "buyer")
		product := createProduct(t, svc, principalOf(farmer.User))

		contract, err := svc.CreateContract(ctx, service.CreateContractInput{
			Principal:    principalOf(buyer.User),
			ProductID:    product.ID,
			Quantity:     "5",
			Price:        "10.00",
			DeliveryDate: time.Now().Add(72 * time.Hour),
		})
		require.NoError(t, err)
		return svc, farmer, buyer, contract
	}

	t.Run("ContractDocumentForParties", func(t *testing.T) {
		svc, farmer, buyer, contract := setup(t)

		for _, party := range []*service.AuthResult{farmer, buyer} {
			result, err := svc.ContractDocument(ctx, principalOf(party.User), contract.ID)
			require.NoError(t, err)
			require.NotEmpty(t, result.Content)
			require.Contains(t, result.FileName, ".pdf")
		}
	})

	t.Run("ContractDocumentDeniedToStrangers", func(t *testing.T) {
		svc, _, _, contract := setup(t)
		stranger := register(t, svc, "buyer2", "buyer")
		_, err := svc.ContractDocument(ctx, principalOf(stranger.User), contract.ID)
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("ContractsReport", func(t *testing.T) {
		svc, farmer, _, _ := setup(t)
		result, err := svc.ContractsReport(ctx, principalOf(farmer.User))
		require.NoError(t, err)
		require.NotEmpty(t, result.Content)
		require.Contains(t, result.FileName, "farmer1")
	})
}
