package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/agromarket/internal/model"
	"github.com/nurpe/agromarket/internal/store"
)

type ExportResult struct {
	FileName string
	Content  []byte
}

// ContractDocument renders the printable contract form. Only the two
// parties to the contract may request it.
func (s *MarketService) ContractDocument(ctx context.Context, principal model.Principal, contractID int) (*ExportResult, error) {
	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: contract not found", ErrNotFound)
		}
		return nil, err
	}
	if contract.BuyerID != principal.UserID && contract.FarmerID != principal.UserID {
		return nil, fmt.Errorf("%w: you are not a party to this contract", ErrPermissionDenied)
	}

	product, err := s.store.GetProduct(ctx, contract.ProductID)
	if err != nil {
		return nil, err
	}
	buyer, err := s.store.GetUser(ctx, contract.BuyerID)
	if err != nil {
		return nil, err
	}
	farmer, err := s.store.GetUser(ctx, contract.FarmerID)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(model.ContractDocument{
		Contract: *contract,
		Product:  *product,
		Buyer:    *buyer,
		Farmer:   *farmer,
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("contract-%d-%s.pdf", contract.ID, contract.Status),
		Content:  content,
	}, nil
}

// ContractsReport builds an xlsx workbook of every contract the caller
// is a party to.
func (s *MarketService) ContractsReport(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	owner, err := s.store.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contracts, err := s.store.ListContractsByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ContractReportRow, 0, len(contracts))
	for _, contract := range contracts {
		row := model.ContractReportRow{Contract: contract}

		if product, err := s.store.GetProduct(ctx, contract.ProductID); err == nil {
			row.ProductName = product.Name
		}

		counterpartyID := contract.BuyerID
		if contract.BuyerID == principal.UserID {
			counterpartyID = contract.FarmerID
		}
		if counterparty, err := s.store.GetUser(ctx, counterpartyID); err == nil {
			row.Counterparty = counterparty.FullName
		}

		rows = append(rows, row)
	}

	content, err := s.excel.Generate(model.ContractsReport{
		Owner:       *owner,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("contracts-%s-%s.xlsx", sanitizeFileName(owner.Username), time.Now().UTC().Format("20060102")),
		Content:  content,
	}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
