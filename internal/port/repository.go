package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"colmado/internal/domain"
)

// SequenceRepository defines the contract for fiscal sequence persistence.
// Allocation is not exposed here: issuing a number happens only inside
// the sale unit of work (SaleRepository.RecordSale).
type SequenceRepository interface {
	Create(ctx context.Context, seq *domain.FiscalSequence) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FiscalSequence, error)
	GetActiveByType(ctx context.Context, docType domain.NCFType) (*domain.FiscalSequence, error)
	List(ctx context.Context) ([]domain.FiscalSequence, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Delete removes a sequence that never issued a number; it returns
	// ErrSequenceInUse otherwise.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the contract for product reads used by the
// transaction recorder. Stock writes happen inside the sale unit of work.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	List(ctx context.Context, offset, limit int) ([]domain.Product, int, error)
}

// SaleRepository defines the contract for sale persistence.
// RecordSale executes the whole atomic unit: allocate the fiscal number
// (when sale.DocumentType is set), insert the sale and its items, and
// decrement stock, all in one serializable transaction. On any
// failure nothing is persisted and no number is consumed.
type SaleRepository interface {
	RecordSale(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListByPeriod(ctx context.Context, from, to time.Time, status domain.SaleStatus) ([]domain.Sale, error)
}

// PurchaseRepository defines the contract for supplier invoice persistence.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	ListByPeriod(ctx context.Context, from, to time.Time, status domain.SaleStatus) ([]domain.Purchase, error)
}

// RegistryRepository defines read access to the cached DGII taxpayer
// registry. The cache is refreshed by an external job; this engine only
// reads it, except for the bulk loader tool.
type RegistryRepository interface {
	GetByTaxID(ctx context.Context, taxID string) (*domain.TaxpayerEntry, error)
	// LastSyncedAt returns the most recent sync timestamp across the
	// cache, or the zero time when the cache is empty.
	LastSyncedAt(ctx context.Context) (time.Time, error)
	// BulkUpsert replaces or inserts entries; used only by cmd/loadrnc.
	BulkUpsert(ctx context.Context, entries []domain.TaxpayerEntry) (int, error)
}
