package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiscalSequence is the authorized numbering range for one NCF type.
// CurrentNumber only ever moves forward, one step per committed sale.
type FiscalSequence struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	DocumentType  NCFType    `db:"document_type" json:"document_type"`
	Authorization string     `db:"authorization_number" json:"authorization_number"`
	CurrentNumber int64      `db:"current_number" json:"current_number"`
	MaxNumber     int64      `db:"max_number" json:"max_number"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	ExpiresAt     *time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Remaining returns how many numbers the sequence can still issue.
func (s *FiscalSequence) Remaining() int64 {
	return s.MaxNumber - s.CurrentNumber
}

// Product is the sellable item whose stock the recorder decrements.
type Product struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Stock     int64           `db:"stock" json:"stock"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Sale is an immutable committed transaction. FiscalNumber is set only
// when the document type required one, and only inside the same
// transaction that advanced the sequence.
type Sale struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	SaleNumber         int64           `db:"sale_number" json:"sale_number"`
	FiscalNumber       *string         `db:"fiscal_number" json:"fiscal_number"`
	DocumentType       *NCFType        `db:"document_type" json:"document_type"`
	ModifiedNCF        *string         `db:"modified_ncf" json:"modified_ncf"`
	Subtotal           decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax                decimal.Decimal `db:"tax" json:"tax"`
	Total              decimal.Decimal `db:"total" json:"total"`
	PaymentMethod      PaymentMethod   `db:"payment_method" json:"payment_method"`
	CustomerID         *uuid.UUID      `db:"customer_id" json:"customer_id"`
	CounterpartyTaxID  *string         `db:"counterparty_tax_id" json:"counterparty_tax_id"`
	Status             SaleStatus      `db:"status" json:"status"`
	CreatedBy          uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	Items              []SaleItem      `db:"-" json:"items"`
}

// SaleItem is a sale line, created atomically with its sale.
type SaleItem struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	SaleID    uuid.UUID       `db:"sale_id" json:"sale_id"`
	ProductID uuid.UUID       `db:"product_id" json:"product_id"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total" json:"line_total"`
}

// Purchase is a supplier invoice received by the business, the data
// source for the purchase-side declaration.
type Purchase struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	SupplierRNC   string          `db:"supplier_rnc" json:"supplier_rnc"`
	SupplierName  string          `db:"supplier_name" json:"supplier_name"`
	FiscalNumber  string          `db:"fiscal_number" json:"fiscal_number"`
	ModifiedNCF   *string         `db:"modified_ncf" json:"modified_ncf"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax           decimal.Decimal `db:"tax" json:"tax"`
	Total         decimal.Decimal `db:"total" json:"total"`
	DocumentDate  time.Time       `db:"document_date" json:"document_date"`
	Status        SaleStatus      `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// TaxpayerEntry is one row of the locally cached DGII registry.
// Read-only from this engine's perspective; refreshed out of band.
type TaxpayerEntry struct {
	TaxID      string         `db:"tax_id" json:"tax_id"`
	LegalName  string         `db:"legal_name" json:"legal_name"`
	Status     TaxpayerStatus `db:"status" json:"status"`
	LastSynced time.Time      `db:"last_synced" json:"last_synced"`
}

// ReportRecord is one detail line of a compliance report build.
type ReportRecord struct {
	Identifier     string          `json:"identifier"`
	IdentifierType string          `json:"identifier_type"`
	FiscalNumber   string          `json:"fiscal_number"`
	ModifiedNCF    string          `json:"modified_ncf,omitempty"`
	DocumentDate   time.Time       `json:"document_date"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Warning        string          `json:"warning,omitempty"`
}

// ReportTotals aggregates a compliance report build.
type ReportTotals struct {
	RecordCount   int                        `json:"record_count"`
	TaxableAmount decimal.Decimal            `json:"taxable_amount"`
	TaxAmount     decimal.Decimal            `json:"tax_amount"`
	ByType        map[NCFType]decimal.Decimal `json:"by_type"`
}

// ComplianceReport is a pure function of the period's committed records
// plus the registry snapshot; it is never persisted as mutable state.
type ComplianceReport struct {
	Kind        ReportKind     `json:"kind"`
	Period      string         `json:"period"` // YYYYMM
	GeneratedAt time.Time      `json:"generated_at"`
	Records     []ReportRecord `json:"records"`
	Totals      ReportTotals   `json:"totals"`
	Warnings    []string       `json:"warnings,omitempty"`
}
