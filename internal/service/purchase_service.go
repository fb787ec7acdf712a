package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"colmado/internal/domain"
	"colmado/internal/ncf"
	"colmado/internal/port"
	"colmado/internal/registry"
)

// RecordPurchaseInput is the DTO for registering a supplier invoice.
type RecordPurchaseInput struct {
	SupplierRNC  string          `json:"supplier_rnc"`
	SupplierName string          `json:"supplier_name"`
	FiscalNumber string          `json:"fiscal_number"`
	ModifiedNCF  *string         `json:"modified_ncf"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	DocumentDate time.Time       `json:"document_date"`
}

// PurchaseService records supplier invoices, the data source for the
// purchase-side declaration.
type PurchaseService interface {
	Record(ctx context.Context, input *RecordPurchaseInput) (*domain.Purchase, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
}

type purchaseService struct {
	repo     port.PurchaseRepository
	registry *registry.Validator
}

// NewPurchaseService creates a new PurchaseService implementation.
func NewPurchaseService(repo port.PurchaseRepository, reg *registry.Validator) PurchaseService {
	return &purchaseService{repo: repo, registry: reg}
}

func (s *purchaseService) Record(ctx context.Context, input *RecordPurchaseInput) (*domain.Purchase, error) {
	if !ncf.IsValid(input.FiscalNumber) {
		return nil, fmt.Errorf("%w: fiscal number %q", domain.ErrValidation, input.FiscalNumber)
	}
	if input.ModifiedNCF != nil && !ncf.IsValid(*input.ModifiedNCF) {
		return nil, fmt.Errorf("%w: modified NCF %q", domain.ErrValidation, *input.ModifiedNCF)
	}
	if input.Subtotal.IsNegative() || input.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrValidation)
	}

	kind, err := s.registry.Classify(ctx, input.SupplierRNC)
	if err != nil {
		return nil, err
	}
	if kind != domain.IdentifierRNC {
		return nil, fmt.Errorf("%w: supplier %q classifies as %s", domain.ErrTaxpayerNotRegistered, input.SupplierRNC, kind)
	}

	p := &domain.Purchase{
		SupplierRNC:  registry.Normalize(input.SupplierRNC),
		SupplierName: input.SupplierName,
		FiscalNumber: input.FiscalNumber,
		ModifiedNCF:  input.ModifiedNCF,
		Subtotal:     input.Subtotal,
		Tax:          input.Tax,
		Total:        input.Total,
		DocumentDate: input.DocumentDate,
		Status:       domain.SaleStatusCompleted,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	return s.repo.GetByID(ctx, id)
}
