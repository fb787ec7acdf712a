// Package registry classifies Dominican tax identifiers and checks
// them against the locally cached DGII taxpayer registry.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"colmado/internal/domain"
	"colmado/internal/port"
)

// Validator classifies identifiers and answers registration checks
// against the cached registry snapshot.
type Validator struct {
	repo       port.RegistryRepository
	staleAfter time.Duration
}

// NewValidator creates a Validator. staleAfter controls when the cache
// is reported stale; staleness is a warning, never a rejection.
func NewValidator(repo port.RegistryRepository, staleAfter time.Duration) *Validator {
	return &Validator{repo: repo, staleAfter: staleAfter}
}

// Normalize strips every non-digit character from an identifier.
func Normalize(taxID string) string {
	var b strings.Builder
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Classify determines the identifier kind:
//   - 9 digits: RNC (business taxpayer)
//   - 11 digits with a registry match: RNC
//   - 11 digits without a match: cedula (personal identifier)
//   - anything else with content: passport-class, usable only for
//     non-fiscal walk-in records
//
// An identifier with no digits and no letters is malformed.
func (v *Validator) Classify(ctx context.Context, taxID string) (domain.IdentifierKind, error) {
	trimmed := strings.TrimSpace(taxID)
	if trimmed == "" {
		return domain.IdentifierUnknown, fmt.Errorf("%w: empty identifier", domain.ErrMalformedIdentifier)
	}

	digits := Normalize(trimmed)
	switch len(digits) {
	case 9:
		return domain.IdentifierRNC, nil
	case 11:
		entry, err := v.repo.GetByTaxID(ctx, digits)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.IdentifierUnknown, fmt.Errorf("registry lookup: %w", err)
		}
		if entry != nil {
			return domain.IdentifierRNC, nil
		}
		return domain.IdentifierCedula, nil
	}

	// Alphanumeric identifiers are treated as passports.
	for _, r := range trimmed {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return domain.IdentifierPassport, nil
		}
	}
	return domain.IdentifierUnknown, fmt.Errorf("%w: %d digits", domain.ErrMalformedIdentifier, len(digits))
}

// CheckResult is the outcome of a registration check.
type CheckResult struct {
	Registered bool
	LegalName  string
	// StaleWarning is non-empty when the cache has not been refreshed
	// within the configured window. The registry-sync job owns
	// freshness policy; the engine only surfaces it.
	StaleWarning string
}

// IsRegisteredAndActive looks up the normalized id and requires an
// ACTIVE registry status.
func (v *Validator) IsRegisteredAndActive(ctx context.Context, taxID string) (*CheckResult, error) {
	digits := Normalize(taxID)
	if len(digits) != 9 && len(digits) != 11 {
		return nil, fmt.Errorf("%w: %q", domain.ErrMalformedIdentifier, taxID)
	}

	res := &CheckResult{}
	entry, err := v.repo.GetByTaxID(ctx, digits)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			res.StaleWarning = v.stalenessWarning(ctx)
			return res, nil
		}
		return nil, fmt.Errorf("registry lookup: %w", err)
	}

	res.Registered = entry.Status == domain.TaxpayerActive
	res.LegalName = entry.LegalName
	if v.staleAfter > 0 && time.Since(entry.LastSynced) > v.staleAfter {
		res.StaleWarning = fmt.Sprintf("registry entry for %s last synced %s ago", digits,
			time.Since(entry.LastSynced).Round(time.Hour))
	}
	return res, nil
}

func (v *Validator) stalenessWarning(ctx context.Context) string {
	if v.staleAfter <= 0 {
		return ""
	}
	last, err := v.repo.LastSyncedAt(ctx)
	if err != nil || last.IsZero() {
		return "taxpayer registry cache is empty or unreadable"
	}
	if time.Since(last) > v.staleAfter {
		return fmt.Sprintf("taxpayer registry cache last synced %s ago", time.Since(last).Round(time.Hour))
	}
	return ""
}
