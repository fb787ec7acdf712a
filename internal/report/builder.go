// Package report builds the periodic DGII compliance declarations: the
// purchase-side (606) and sale-side (607) reports. A build is a pure
// function of the period's committed records plus the registry
// snapshot; it reads already-committed rows and never locks writers.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"colmado/internal/domain"
	"colmado/internal/ncf"
	"colmado/internal/port"
	"colmado/internal/registry"
	"colmado/internal/tax"
)

// taxTolerance is the allowed drift between stored tax and the
// recomputed statutory amount before a record is flagged.
var taxTolerance = decimal.New(1, -2) // 0.01

// Builder aggregates committed sales or purchases into a compliance
// report for one period.
type Builder struct {
	sales     port.SaleRepository
	purchases port.PurchaseRepository
	registry  *registry.Validator
	calc      *tax.Calculator
	// anonymousID is reported for walk-in records with no identifier.
	anonymousID string
}

// NewBuilder creates a report Builder.
func NewBuilder(
	sales port.SaleRepository,
	purchases port.PurchaseRepository,
	reg *registry.Validator,
	calc *tax.Calculator,
	anonymousID string,
) *Builder {
	return &Builder{
		sales:       sales,
		purchases:   purchases,
		registry:    reg,
		calc:        calc,
		anonymousID: anonymousID,
	}
}

// Build assembles the report for [from, to]. An empty period is a
// valid zero-total report, not an error.
func (b *Builder) Build(ctx context.Context, from, to time.Time, kind domain.ReportKind) (*domain.ComplianceReport, error) {
	report := &domain.ComplianceReport{
		Kind:        kind,
		Period:      from.Format("200601"),
		GeneratedAt: time.Now().UTC(),
		Records:     []domain.ReportRecord{},
		Totals: domain.ReportTotals{
			TaxableAmount: decimal.Zero,
			TaxAmount:     decimal.Zero,
			ByType:        map[domain.NCFType]decimal.Decimal{},
		},
	}

	switch kind {
	case domain.ReportSales:
		sales, err := b.sales.ListByPeriod(ctx, from, to, domain.SaleStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("report.Build list sales: %w", err)
		}
		for i := range sales {
			// Non-fiscal sales carry no NCF and are not declarable.
			if sales[i].FiscalNumber == nil {
				continue
			}
			rec, warn := b.saleRecord(ctx, &sales[i])
			b.appendRecord(report, rec, saleDocType(&sales[i]), warn)
		}
	case domain.ReportPurchases:
		purchases, err := b.purchases.ListByPeriod(ctx, from, to, domain.SaleStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("report.Build list purchases: %w", err)
		}
		for i := range purchases {
			rec, warn := b.purchaseRecord(ctx, &purchases[i])
			b.appendRecord(report, rec, purchaseDocType(&purchases[i]), warn)
		}
	default:
		return nil, fmt.Errorf("%w: unknown report kind %q", domain.ErrValidation, kind)
	}

	return report, nil
}

func saleDocType(s *domain.Sale) domain.NCFType {
	if s.DocumentType != nil {
		return *s.DocumentType
	}
	return domain.NCFConsumo
}

func purchaseDocType(p *domain.Purchase) domain.NCFType {
	if docType, _, err := ncf.Parse(p.FiscalNumber); err == nil {
		return docType
	}
	return domain.NCFCreditoFiscal
}

func (b *Builder) appendRecord(report *domain.ComplianceReport, rec domain.ReportRecord, docType domain.NCFType, warn string) {
	if warn != "" {
		rec.Warning = warn
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", rec.FiscalNumber, warn))
	}
	report.Records = append(report.Records, rec)
	report.Totals.RecordCount++
	report.Totals.TaxableAmount = report.Totals.TaxableAmount.Add(rec.TaxableAmount)
	report.Totals.TaxAmount = report.Totals.TaxAmount.Add(rec.TaxAmount)
	prev, ok := report.Totals.ByType[docType]
	if !ok {
		prev = decimal.Zero
	}
	report.Totals.ByType[docType] = prev.Add(rec.TaxableAmount)
}

// saleRecord resolves the reporting identifier and cross-checks the
// stored tax. Tax deviations flag the record but never reject it:
// they usually point at historical data recorded under older rules.
func (b *Builder) saleRecord(ctx context.Context, s *domain.Sale) (domain.ReportRecord, string) {
	rec := domain.ReportRecord{
		DocumentDate:  s.CreatedAt,
		TaxableAmount: s.Subtotal,
		TaxAmount:     s.Tax,
	}
	if s.FiscalNumber != nil {
		rec.FiscalNumber = *s.FiscalNumber
	}
	if s.ModifiedNCF != nil {
		rec.ModifiedNCF = *s.ModifiedNCF
	}

	rec.Identifier, rec.IdentifierType = b.resolveIdentifier(ctx, s.CounterpartyTaxID)

	var warn string
	expected := b.calc.TaxFor(s.Subtotal)
	if s.Tax.Sub(expected).Abs().GreaterThan(taxTolerance) {
		warn = fmt.Sprintf("stored tax %s deviates from recomputed %s", s.Tax.StringFixed(2), expected.StringFixed(2))
	}
	return rec, warn
}

func (b *Builder) purchaseRecord(ctx context.Context, p *domain.Purchase) (domain.ReportRecord, string) {
	rec := domain.ReportRecord{
		FiscalNumber:  p.FiscalNumber,
		DocumentDate:  p.DocumentDate,
		TaxableAmount: p.Subtotal,
		TaxAmount:     p.Tax,
	}
	if p.ModifiedNCF != nil {
		rec.ModifiedNCF = *p.ModifiedNCF
	}

	supplier := p.SupplierRNC
	rec.Identifier, rec.IdentifierType = b.resolveIdentifier(ctx, &supplier)

	var warn string
	expected := b.calc.TaxFor(p.Subtotal)
	if p.Tax.Sub(expected).Abs().GreaterThan(taxTolerance) {
		warn = fmt.Sprintf("stored tax %s deviates from recomputed %s", p.Tax.StringFixed(2), expected.StringFixed(2))
	}
	return rec, warn
}

// resolveIdentifier prefers a registered tax id, falls back to the
// personal identifier classification, and reports walk-in records
// under the anonymous placeholder.
func (b *Builder) resolveIdentifier(ctx context.Context, taxID *string) (string, string) {
	if taxID == nil || *taxID == "" {
		return b.anonymousID, domain.IdentifierUnknown.DGIICode()
	}
	normalized := registry.Normalize(*taxID)
	kind, err := b.registry.Classify(ctx, *taxID)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedIdentifier) {
			return b.anonymousID, domain.IdentifierUnknown.DGIICode()
		}
		// Lookup failure: classify on digit shape alone.
		kind = domain.IdentifierUnknown
		if len(normalized) == 9 {
			kind = domain.IdentifierRNC
		} else if len(normalized) == 11 {
			kind = domain.IdentifierCedula
		}
	}
	if kind == domain.IdentifierPassport {
		// Passports keep their raw form; everything else is digits.
		return *taxID, kind.DGIICode()
	}
	return normalized, kind.DGIICode()
}
