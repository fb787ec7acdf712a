package report_test

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colmado/internal/domain"
	"colmado/internal/report"
)

func zeroReport(kind domain.ReportKind) *domain.ComplianceReport {
	return &domain.ComplianceReport{
		Kind:        kind,
		Period:      "202607",
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Records:     []domain.ReportRecord{},
		Totals: domain.ReportTotals{
			TaxableAmount: decimal.Zero,
			TaxAmount:     decimal.Zero,
		},
	}
}

func TestSerialize_ZeroRecordReportIsConformant(t *testing.T) {
	out, err := report.Serialize(zeroReport(domain.ReportSales), "131246791", "COLMADO DONA ANA SRL")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<Venta607 xmlns="https://dgii.gov.do/esquemas/607">`)
	assert.Contains(t, s, "<RNCEmisor>131246791</RNCEmisor>")
	assert.Contains(t, s, "<Periodo>202607</Periodo>")
	assert.Contains(t, s, "<CantidadRegistros>0</CantidadRegistros>")
	assert.Contains(t, s, "<TotalMontoGravado>0.00</TotalMontoGravado>")
	assert.Contains(t, s, "<TotalITBIS>0.00</TotalITBIS>")

	// The artifact must be well-formed XML.
	var decl report.Declaration
	require.NoError(t, xml.Unmarshal(out, &decl))
	assert.Equal(t, 0, decl.Header.RecordCount)
}

func TestSerialize_DetailFormatting(t *testing.T) {
	r := zeroReport(domain.ReportPurchases)
	r.Records = append(r.Records, domain.ReportRecord{
		Identifier:     "131246791",
		IdentifierType: "1",
		FiscalNumber:   "B0100004501",
		ModifiedNCF:    "B0400000003",
		DocumentDate:   time.Date(2026, 7, 10, 15, 30, 0, 0, time.UTC),
		TaxableAmount:  decimal.RequireFromString("1000.5"),
		TaxAmount:      decimal.RequireFromString("180.09"),
	})
	r.Totals.RecordCount = 1
	r.Totals.TaxableAmount = decimal.RequireFromString("1000.5")
	r.Totals.TaxAmount = decimal.RequireFromString("180.09")

	out, err := report.Serialize(r, "00112345678", "COLMADO DONA ANA SRL")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<Compra606 xmlns="https://dgii.gov.do/esquemas/606">`)
	assert.Contains(t, s, "<Fecha>2026-07-10</Fecha>")
	// Money always carries exactly two decimals.
	assert.Contains(t, s, "<MontoGravado>1000.50</MontoGravado>")
	assert.Contains(t, s, "<ITBIS>180.09</ITBIS>")
	assert.Contains(t, s, "<NCFModificado>B0400000003</NCFModificado>")
}

func TestSerialize_OmitsEmptyModifiedNCF(t *testing.T) {
	r := zeroReport(domain.ReportSales)
	r.Records = append(r.Records, domain.ReportRecord{
		Identifier:     "00000000000",
		IdentifierType: "3",
		FiscalNumber:   "B0200000001",
		DocumentDate:   time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
		TaxableAmount:  decimal.RequireFromString("50.00"),
		TaxAmount:      decimal.RequireFromString("9.00"),
	})
	r.Totals.RecordCount = 1
	r.Totals.TaxableAmount = decimal.RequireFromString("50.00")
	r.Totals.TaxAmount = decimal.RequireFromString("9.00")

	out, err := report.Serialize(r, "131246791", "COLMADO DONA ANA SRL")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "NCFModificado"))
}

func TestSerialize_SchemaViolations(t *testing.T) {
	tests := []struct {
		name       string
		issuerRNC  string
		issuerName string
		mutate     func(*domain.ComplianceReport)
	}{
		{"bad issuer rnc", "12345", "X SRL", nil},
		{"empty issuer name", "131246791", "", nil},
		{"bad period", "131246791", "X SRL", func(r *domain.ComplianceReport) { r.Period = "2026-07" }},
		{"count mismatch", "131246791", "X SRL", func(r *domain.ComplianceReport) { r.Totals.RecordCount = 5 }},
		{"detail missing identifier", "131246791", "X SRL", func(r *domain.ComplianceReport) {
			r.Records = append(r.Records, domain.ReportRecord{
				IdentifierType: "1", FiscalNumber: "B0100000001",
				DocumentDate:  time.Now(),
				TaxableAmount: decimal.Zero, TaxAmount: decimal.Zero,
			})
			r.Totals.RecordCount = 1
		}},
		{"detail missing ncf", "131246791", "X SRL", func(r *domain.ComplianceReport) {
			r.Records = append(r.Records, domain.ReportRecord{
				Identifier: "131246791", IdentifierType: "1",
				DocumentDate:  time.Now(),
				TaxableAmount: decimal.Zero, TaxAmount: decimal.Zero,
			})
			r.Totals.RecordCount = 1
		}},
		{"detail malformed ncf", "131246791", "X SRL", func(r *domain.ComplianceReport) {
			r.Records = append(r.Records, domain.ReportRecord{
				Identifier: "131246791", IdentifierType: "1", FiscalNumber: "X99123",
				DocumentDate:  time.Now(),
				TaxableAmount: decimal.Zero, TaxAmount: decimal.Zero,
			})
			r.Totals.RecordCount = 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := zeroReport(domain.ReportSales)
			if tt.mutate != nil {
				tt.mutate(r)
			}
			_, err := report.Serialize(r, tt.issuerRNC, tt.issuerName)
			assert.ErrorIs(t, err, domain.ErrSchemaViolation)
		})
	}
}
