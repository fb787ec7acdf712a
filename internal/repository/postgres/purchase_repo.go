package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"colmado/internal/domain"
	"colmado/internal/port"
)

type purchaseRepo struct {
	db *sqlx.DB
}

// NewPurchaseRepo creates a new PostgreSQL-backed PurchaseRepository.
func NewPurchaseRepo(db *sqlx.DB) port.PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	if p.Status == "" {
		p.Status = domain.SaleStatusCompleted
	}

	query := `INSERT INTO purchases
		(id, supplier_rnc, supplier_name, fiscal_number, modified_ncf,
		 subtotal, tax, total, document_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SupplierRNC, p.SupplierName, p.FiscalNumber, p.ModifiedNCF,
		p.Subtotal, p.Tax, p.Total, p.DocumentDate, p.Status, p.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("%w: invoice %s from supplier %s is already recorded",
				domain.ErrValidation, p.FiscalNumber, p.SupplierRNC)
		}
		return fmt.Errorf("purchaseRepo.Create: %w", err)
	}
	return nil
}

func (r *purchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.GetContext(ctx, &p, "SELECT * FROM purchases WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("purchaseRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *purchaseRepo) ListByPeriod(ctx context.Context, from, to time.Time, status domain.SaleStatus) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.SelectContext(ctx, &purchases,
		`SELECT * FROM purchases
		 WHERE status = $1 AND document_date >= $2 AND document_date <= $3
		 ORDER BY document_date`,
		status, from, to)
	if err != nil {
		return nil, fmt.Errorf("purchaseRepo.ListByPeriod: %w", err)
	}
	return purchases, nil
}
