package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"colmado/internal/domain"
	"colmado/internal/port"
)

// CreateSequenceInput is the DTO for registering an authorized range.
type CreateSequenceInput struct {
	DocumentType  domain.NCFType `json:"document_type"`
	Authorization string         `json:"authorization_number"`
	MaxNumber     int64          `json:"max_number"`
	ExpiresAt     *time.Time     `json:"expires_at"`
}

// SequenceStatus is a sequence plus operational warnings.
type SequenceStatus struct {
	domain.FiscalSequence
	Warnings []string `json:"warnings,omitempty"`
}

// SequenceService manages fiscal sequences. Number allocation is not
// here: it happens only inside the sale unit of work.
type SequenceService interface {
	Create(ctx context.Context, input *CreateSequenceInput) (*domain.FiscalSequence, error)
	Get(ctx context.Context, id uuid.UUID) (*SequenceStatus, error)
	ActiveByType(ctx context.Context, docType domain.NCFType) (*SequenceStatus, error)
	List(ctx context.Context) ([]SequenceStatus, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sequenceService struct {
	repo             port.SequenceRepository
	exhaustionWarnAt int64
}

// NewSequenceService creates a new SequenceService implementation.
// exhaustionWarnAt is the remaining-capacity threshold below which
// List flags a sequence.
func NewSequenceService(repo port.SequenceRepository, exhaustionWarnAt int64) SequenceService {
	return &sequenceService{repo: repo, exhaustionWarnAt: exhaustionWarnAt}
}

func (s *sequenceService) Create(ctx context.Context, input *CreateSequenceInput) (*domain.FiscalSequence, error) {
	if !domain.ValidNCFTypes[input.DocumentType] {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, input.DocumentType)
	}
	if input.MaxNumber < 1 {
		return nil, fmt.Errorf("%w: max number must be positive", domain.ErrValidation)
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expiry date is in the past", domain.ErrValidation)
	}

	seq := &domain.FiscalSequence{
		DocumentType:  input.DocumentType,
		Authorization: input.Authorization,
		CurrentNumber: 0,
		MaxNumber:     input.MaxNumber,
		IsActive:      true,
		ExpiresAt:     input.ExpiresAt,
	}
	if err := s.repo.Create(ctx, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

func (s *sequenceService) List(ctx context.Context) ([]SequenceStatus, error) {
	seqs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statuses := make([]SequenceStatus, 0, len(seqs))
	for _, seq := range seqs {
		statuses = append(statuses, s.statusFor(seq, now))
	}
	return statuses, nil
}

func (s *sequenceService) Get(ctx context.Context, id uuid.UUID) (*SequenceStatus, error) {
	seq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st := s.statusFor(*seq, time.Now())
	return &st, nil
}

// ActiveByType reports the issuing sequence for one document type, the
// pre-flight check a terminal runs before offering that document kind.
func (s *sequenceService) ActiveByType(ctx context.Context, docType domain.NCFType) (*SequenceStatus, error) {
	if !domain.ValidNCFTypes[docType] {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, docType)
	}
	seq, err := s.repo.GetActiveByType(ctx, docType)
	if err != nil {
		return nil, err
	}
	st := s.statusFor(*seq, time.Now())
	return &st, nil
}

func (s *sequenceService) statusFor(seq domain.FiscalSequence, now time.Time) SequenceStatus {
	st := SequenceStatus{FiscalSequence: seq}
	if seq.IsActive {
		if remaining := seq.Remaining(); remaining <= s.exhaustionWarnAt {
			st.Warnings = append(st.Warnings,
				fmt.Sprintf("only %d numbers remain for %s", remaining, seq.DocumentType))
		}
		if seq.ExpiresAt != nil && seq.ExpiresAt.Before(now) {
			st.Warnings = append(st.Warnings,
				fmt.Sprintf("sequence for %s expired on %s", seq.DocumentType, seq.ExpiresAt.Format("2006-01-02")))
		}
	}
	return st
}

func (s *sequenceService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

// Delete hard-deletes only a never-used sequence; the repository
// returns ErrSequenceInUse otherwise and the caller should deactivate
// instead.
func (s *sequenceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
