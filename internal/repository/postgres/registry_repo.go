package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"colmado/internal/domain"
	"colmado/internal/port"
)

type registryRepo struct {
	db *sqlx.DB
}

// NewRegistryRepo creates a new PostgreSQL-backed RegistryRepository
// over the cached DGII taxpayer table.
func NewRegistryRepo(db *sqlx.DB) port.RegistryRepository {
	return &registryRepo{db: db}
}

func (r *registryRepo) GetByTaxID(ctx context.Context, taxID string) (*domain.TaxpayerEntry, error) {
	var entry domain.TaxpayerEntry
	err := r.db.GetContext(ctx, &entry,
		"SELECT * FROM taxpayer_registry WHERE tax_id = $1", taxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registryRepo.GetByTaxID: %w", err)
	}
	return &entry, nil
}

func (r *registryRepo) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var last sql.NullTime
	err := r.db.GetContext(ctx, &last, "SELECT MAX(last_synced) FROM taxpayer_registry")
	if err != nil {
		return time.Time{}, fmt.Errorf("registryRepo.LastSyncedAt: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time, nil
}

// BulkUpsert loads registry rows in batches. Used by cmd/loadrnc; the
// serving path never writes this table.
func (r *registryRepo) BulkUpsert(ctx context.Context, entries []domain.TaxpayerEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("registryRepo.BulkUpsert begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO taxpayer_registry (tax_id, legal_name, status, last_synced)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tax_id) DO UPDATE
		SET legal_name = EXCLUDED.legal_name, status = EXCLUDED.status, last_synced = EXCLUDED.last_synced`)
	if err != nil {
		return 0, fmt.Errorf("registryRepo.BulkUpsert prepare: %w", err)
	}
	defer stmt.Close()

	count := 0
	for i := range entries {
		e := &entries[i]
		if _, err := stmt.ExecContext(ctx, e.TaxID, e.LegalName, e.Status, e.LastSynced); err != nil {
			return 0, fmt.Errorf("registryRepo.BulkUpsert row %d: %w", i, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("registryRepo.BulkUpsert commit: %w", err)
	}
	return count, nil
}
