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
	"colmado/internal/ncf"
	"colmado/internal/port"
)

type sequenceRepo struct {
	db *sqlx.DB
}

// NewSequenceRepo creates a new PostgreSQL-backed SequenceRepository.
func NewSequenceRepo(db *sqlx.DB) port.SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) Create(ctx context.Context, seq *domain.FiscalSequence) error {
	seq.ID = uuid.New()
	now := time.Now().UTC()
	seq.CreatedAt = now
	seq.UpdatedAt = now

	query := `INSERT INTO fiscal_sequences
		(id, document_type, authorization_number, current_number, max_number, is_active, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		seq.ID, seq.DocumentType, seq.Authorization, seq.CurrentNumber,
		seq.MaxNumber, seq.IsActive, seq.ExpiresAt, seq.CreatedAt, seq.UpdatedAt)
	if err != nil {
		// Partial unique index: one active sequence per document type.
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateSequence
		}
		return fmt.Errorf("sequenceRepo.Create: %w", err)
	}
	return nil
}

func (r *sequenceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FiscalSequence, error) {
	var seq domain.FiscalSequence
	err := r.db.GetContext(ctx, &seq, "SELECT * FROM fiscal_sequences WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sequenceRepo.GetByID: %w", err)
	}
	return &seq, nil
}

func (r *sequenceRepo) GetActiveByType(ctx context.Context, docType domain.NCFType) (*domain.FiscalSequence, error) {
	var seq domain.FiscalSequence
	err := r.db.GetContext(ctx, &seq,
		"SELECT * FROM fiscal_sequences WHERE document_type = $1 AND is_active = true", docType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoActiveSequence
		}
		return nil, fmt.Errorf("sequenceRepo.GetActiveByType: %w", err)
	}
	return &seq, nil
}

func (r *sequenceRepo) List(ctx context.Context) ([]domain.FiscalSequence, error) {
	var seqs []domain.FiscalSequence
	err := r.db.SelectContext(ctx, &seqs,
		"SELECT * FROM fiscal_sequences ORDER BY document_type, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("sequenceRepo.List: %w", err)
	}
	return seqs, nil
}

func (r *sequenceRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE fiscal_sequences SET is_active = false, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("sequenceRepo.Deactivate: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a sequence only while current_number is still zero.
// A sequence that has issued numbers is legally traceable and may only
// be deactivated.
func (r *sequenceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM fiscal_sequences WHERE id = $1 AND current_number = 0", id)
	if err != nil {
		return fmt.Errorf("sequenceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM fiscal_sequences WHERE id = $1)", id); err != nil {
			return fmt.Errorf("sequenceRepo.Delete: %w", err)
		}
		if exists {
			return domain.ErrSequenceInUse
		}
		return domain.ErrNotFound
	}
	return nil
}

// allocateTx issues the next fiscal number inside the caller's
// transaction. The row lock serializes concurrent allocations for the
// same document type; the increment commits or rolls back with the
// rest of the sale.
func allocateTx(ctx context.Context, tx *sqlx.Tx, docType domain.NCFType, now time.Time) (string, uuid.UUID, error) {
	var seq domain.FiscalSequence
	err := tx.GetContext(ctx, &seq,
		"SELECT * FROM fiscal_sequences WHERE document_type = $1 AND is_active = true FOR UPDATE", docType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", uuid.Nil, domain.ErrNoActiveSequence
		}
		return "", uuid.Nil, fmt.Errorf("allocateTx select: %w", err)
	}

	if err := ncf.CheckIssuable(&seq, now); err != nil {
		return "", uuid.Nil, err
	}

	next := seq.CurrentNumber + 1
	result, err := tx.ExecContext(ctx,
		`UPDATE fiscal_sequences SET current_number = $1, updated_at = NOW()
		 WHERE id = $2 AND current_number = $3`,
		next, seq.ID, seq.CurrentNumber)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("allocateTx update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Cannot happen while we hold the row lock; guard anyway.
		return "", uuid.Nil, domain.ErrTransientConflict
	}
	return ncf.Format(docType, next), seq.ID, nil
}
