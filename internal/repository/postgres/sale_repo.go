package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"colmado/internal/domain"
	"colmado/internal/port"
)

type saleRepo struct {
	db         *sqlx.DB
	maxRetries int
}

// NewSaleRepo creates a new PostgreSQL-backed SaleRepository.
// maxRetries bounds the retry loop on serialization conflicts.
func NewSaleRepo(db *sqlx.DB, maxRetries int) port.SaleRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &saleRepo{db: db, maxRetries: maxRetries}
}

// RecordSale runs the whole atomic unit in one serializable
// transaction: fiscal number allocation (when a document type is set),
// sale and line item inserts, and stock decrements. Any failure rolls
// back everything, including the sequence increment, so a number is
// never consumed by a sale that did not commit.
func (r *saleRepo) RecordSale(ctx context.Context, sale *domain.Sale) error {
	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.recordSaleOnce(ctx, sale)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransientConflict, lastErr)
}

func (r *saleRepo) recordSaleOnce(ctx context.Context, sale *domain.Sale) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("saleRepo.RecordSale begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	// Allocation and commit are the same transaction; there is no
	// separate reservation step.
	sale.FiscalNumber = nil
	if sale.DocumentType != nil {
		fiscalNumber, _, aerr := allocateTx(ctx, tx, *sale.DocumentType, now)
		if aerr != nil {
			return aerr
		}
		sale.FiscalNumber = &fiscalNumber
	}

	sale.ID = uuid.New()
	sale.CreatedAt = now
	sale.Status = domain.SaleStatusCompleted

	if err = tx.GetContext(ctx, &sale.SaleNumber, "SELECT nextval('sale_number_seq')"); err != nil {
		return fmt.Errorf("saleRepo.RecordSale sale number: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO sales
		(id, sale_number, fiscal_number, document_type, modified_ncf,
		 subtotal, tax, total, payment_method, customer_id, counterparty_tax_id,
		 status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sale.ID, sale.SaleNumber, sale.FiscalNumber, sale.DocumentType, sale.ModifiedNCF,
		sale.Subtotal, sale.Tax, sale.Total, sale.PaymentMethod, sale.CustomerID,
		sale.CounterpartyTaxID, sale.Status, sale.CreatedBy, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("saleRepo.RecordSale insert sale: %w", err)
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		item.ID = uuid.New()
		item.SaleID = sale.ID

		_, err = tx.ExecContext(ctx, `INSERT INTO sale_items
			(id, sale_id, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("saleRepo.RecordSale insert item: %w", err)
		}

		// Guarded decrement: the WHERE clause refuses to take stock
		// below zero, so a short last line aborts the whole unit.
		result, derr := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = NOW()
			 WHERE id = $2 AND is_active = true AND stock >= $1`,
			item.Quantity, item.ProductID)
		if derr != nil {
			return fmt.Errorf("saleRepo.RecordSale decrement stock: %w", derr)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrInsufficientStock
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("saleRepo.RecordSale commit: %w", err)
	}
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("saleRepo.GetByID: %w", err)
	}
	err = r.db.SelectContext(ctx, &sale.Items,
		"SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("saleRepo.GetByID items: %w", err)
	}
	return &sale, nil
}

func (r *saleRepo) ListByPeriod(ctx context.Context, from, to time.Time, status domain.SaleStatus) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.SelectContext(ctx, &sales,
		`SELECT * FROM sales
		 WHERE status = $1 AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at`,
		status, from, to)
	if err != nil {
		return nil, fmt.Errorf("saleRepo.ListByPeriod: %w", err)
	}
	return sales, nil
}

// isSerializationFailure reports whether the error is worth retrying:
// a serialization failure (40001) or deadlock (40P01).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
