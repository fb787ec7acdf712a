package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"colmado/internal/domain"
	"colmado/internal/ncf"
	"colmado/internal/port"
	"colmado/internal/registry"
	"colmado/internal/tax"
)

// SaleLineInput is one requested sale line.
type SaleLineInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RecordSaleInput is the DTO for recording a sale.
type RecordSaleInput struct {
	DocumentType      *domain.NCFType      `json:"document_type"`
	ModifiedNCF       *string              `json:"modified_ncf"`
	CustomerID        *uuid.UUID           `json:"customer_id"`
	CounterpartyTaxID *string              `json:"counterparty_tax_id"`
	PaymentMethod     domain.PaymentMethod `json:"payment_method"`
	Items             []SaleLineInput      `json:"items"`
	CreatedBy         uuid.UUID            `json:"-"`
}

// RecordSaleResult carries the committed sale plus non-blocking
// warnings (currently only registry staleness).
type RecordSaleResult struct {
	Sale     *domain.Sale `json:"sale"`
	Warnings []string     `json:"warnings,omitempty"`
}

// SaleService is the transaction recorder: it validates a sale
// request, computes taxes, and commits the atomic unit of work.
type SaleService interface {
	RecordSale(ctx context.Context, input *RecordSaleInput) (*RecordSaleResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
}

type saleService struct {
	saleRepo    port.SaleRepository
	productRepo port.ProductRepository
	registry    *registry.Validator
	calc        *tax.Calculator
}

// NewSaleService creates a new SaleService implementation.
func NewSaleService(
	saleRepo port.SaleRepository,
	productRepo port.ProductRepository,
	reg *registry.Validator,
	calc *tax.Calculator,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		registry:    reg,
		calc:        calc,
	}
}

// RecordSale validates first and allocates last: a request that cannot
// commit must never consume a fiscal number, so every check that can
// fail cheaply runs before the transactional unit starts.
func (s *saleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*RecordSaleResult, error) {
	if err := s.validateShape(input); err != nil {
		return nil, err
	}
	if err := s.validateProducts(ctx, input); err != nil {
		return nil, err
	}

	var warnings []string
	if input.DocumentType != nil && input.DocumentType.RequiresRegisteredTaxpayer() {
		warn, err := s.checkTaxpayer(ctx, input.CounterpartyTaxID)
		if err != nil {
			return nil, err
		}
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}

	lines := make([]tax.Line, len(input.Items))
	for i, item := range input.Items {
		lines[i] = tax.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	totals, err := s.calc.Compute(lines)
	if err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		DocumentType:      input.DocumentType,
		ModifiedNCF:       input.ModifiedNCF,
		CustomerID:        input.CustomerID,
		CounterpartyTaxID: normalizedTaxID(input.CounterpartyTaxID),
		PaymentMethod:     input.PaymentMethod,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Total:             totals.Total,
		CreatedBy:         input.CreatedBy,
		Items:             make([]domain.SaleItem, len(input.Items)),
	}
	for i, item := range input.Items {
		sale.Items[i] = domain.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: totals.LineTotals[i],
		}
	}

	if err := s.saleRepo.RecordSale(ctx, sale); err != nil {
		return nil, err
	}
	return &RecordSaleResult{Sale: sale, Warnings: warnings}, nil
}

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

func (s *saleService) validateShape(input *RecordSaleInput) error {
	if len(input.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", domain.ErrValidation)
	}
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1", domain.ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price is negative", domain.ErrInvalidLineItem, i)
		}
	}
	if input.DocumentType != nil && !domain.ValidNCFTypes[*input.DocumentType] {
		return fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, *input.DocumentType)
	}
	if input.ModifiedNCF != nil && !ncf.IsValid(*input.ModifiedNCF) {
		return fmt.Errorf("%w: modified NCF %q is not a valid fiscal number", domain.ErrValidation, *input.ModifiedNCF)
	}
	return nil
}

func (s *saleService) validateProducts(ctx context.Context, input *RecordSaleInput) error {
	ids := make([]uuid.UUID, 0, len(input.Items))
	seen := map[uuid.UUID]bool{}
	for _, item := range input.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("saleService.validateProducts: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: product %s does not exist", domain.ErrValidation, id)
		}
		if !p.IsActive {
			return fmt.Errorf("%w: product %s", domain.ErrProductInactive, id)
		}
	}
	return nil
}

// checkTaxpayer enforces the registered-taxpayer rule before any
// number allocation. Registry staleness comes back as a warning.
func (s *saleService) checkTaxpayer(ctx context.Context, taxID *string) (string, error) {
	if taxID == nil || *taxID == "" {
		return "", domain.ErrTaxpayerRequired
	}
	kind, err := s.registry.Classify(ctx, *taxID)
	if err != nil {
		return "", err
	}
	if kind != domain.IdentifierRNC {
		return "", fmt.Errorf("%w: identifier %q classifies as %s", domain.ErrTaxpayerNotRegistered, *taxID, kind)
	}
	check, err := s.registry.IsRegisteredAndActive(ctx, *taxID)
	if err != nil {
		return "", err
	}
	if !check.Registered {
		return "", fmt.Errorf("%w: %q", domain.ErrTaxpayerNotRegistered, *taxID)
	}
	return check.StaleWarning, nil
}

func normalizedTaxID(taxID *string) *string {
	if taxID == nil || *taxID == "" {
		return nil
	}
	n := registry.Normalize(*taxID)
	if n == "" {
		return taxID
	}
	return &n
}
