package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"colmado/internal/domain"
	"colmado/internal/registry"
	"colmado/internal/report"
	"colmado/internal/tax"
	"colmado/mocks"
)

const anonymousID = "00000000000"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newBuilder(saleRepo *mocks.MockSaleRepo, purchaseRepo *mocks.MockPurchaseRepo, regRepo *mocks.MockRegistryRepo) *report.Builder {
	v := registry.NewValidator(regRepo, 0)
	return report.NewBuilder(saleRepo, purchaseRepo, v, tax.NewCalculator(0.18), anonymousID)
}

func period() (time.Time, time.Time) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

func TestBuild_EmptyPeriodYieldsZeroReport(t *testing.T) {
	saleRepo := new(mocks.MockSaleRepo)
	saleRepo.On("ListByPeriod", mock.Anything, mock.Anything, mock.Anything, domain.SaleStatusCompleted).
		Return([]domain.Sale{}, nil)

	b := newBuilder(saleRepo, new(mocks.MockPurchaseRepo), new(mocks.MockRegistryRepo))
	from, to := period()

	r, err := b.Build(context.Background(), from, to, domain.ReportSales)
	require.NoError(t, err)
	assert.Equal(t, "202607", r.Period)
	assert.Equal(t, 0, r.Totals.RecordCount)
	assert.True(t, r.Totals.TaxableAmount.IsZero())
	assert.True(t, r.Totals.TaxAmount.IsZero())
	assert.Empty(t, r.Records)
}

func TestBuild_SalesAggregation(t *testing.T) {
	ncfB01 := "B0100000007"
	ncfB02 := "B0200000042"
	b01 := domain.NCFCreditoFiscal
	b02 := domain.NCFConsumo
	rnc := "131246791"

	sales := []domain.Sale{
		{
			FiscalNumber: &ncfB01, DocumentType: &b01, CounterpartyTaxID: &rnc,
			Subtotal: dec("267.00"), Tax: dec("48.06"), Total: dec("315.06"),
			CreatedAt: time.Date(2026, 7, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			FiscalNumber: &ncfB02, DocumentType: &b02,
			Subtotal: dec("100.00"), Tax: dec("18.00"), Total: dec("118.00"),
			CreatedAt: time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
		},
	}

	saleRepo := new(mocks.MockSaleRepo)
	saleRepo.On("ListByPeriod", mock.Anything, mock.Anything, mock.Anything, domain.SaleStatusCompleted).
		Return(sales, nil)
	regRepo := new(mocks.MockRegistryRepo)

	b := newBuilder(saleRepo, new(mocks.MockPurchaseRepo), regRepo)
	from, to := period()

	r, err := b.Build(context.Background(), from, to, domain.ReportSales)
	require.NoError(t, err)
	require.Len(t, r.Records, 2)

	assert.Equal(t, "131246791", r.Records[0].Identifier)
	assert.Equal(t, "1", r.Records[0].IdentifierType)
	assert.Equal(t, ncfB01, r.Records[0].FiscalNumber)
	assert.Empty(t, r.Records[0].Warning)

	// Walk-in consumer sale reports under the placeholder.
	assert.Equal(t, anonymousID, r.Records[1].Identifier)
	assert.Equal(t, "3", r.Records[1].IdentifierType)

	assert.Equal(t, 2, r.Totals.RecordCount)
	assert.True(t, r.Totals.TaxableAmount.Equal(dec("367.00")))
	assert.True(t, r.Totals.TaxAmount.Equal(dec("66.06")))
	assert.True(t, r.Totals.ByType[domain.NCFCreditoFiscal].Equal(dec("267.00")))
	assert.True(t, r.Totals.ByType[domain.NCFConsumo].Equal(dec("100.00")))
}

func TestBuild_NonFiscalSalesExcluded(t *testing.T) {
	ncfB02 := "B0200000042"
	b02 := domain.NCFConsumo

	sales := []domain.Sale{
		{
			FiscalNumber: &ncfB02, DocumentType: &b02,
			Subtotal: dec("100.00"), Tax: dec("18.00"), Total: dec("118.00"),
			CreatedAt: time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
		},
		{
			// Internal ticket without a fiscal number: not declarable.
			Subtotal: dec("55.00"), Tax: dec("9.90"), Total: dec("64.90"),
			CreatedAt: time.Date(2026, 7, 7, 9, 0, 0, 0, time.UTC),
		},
	}

	saleRepo := new(mocks.MockSaleRepo)
	saleRepo.On("ListByPeriod", mock.Anything, mock.Anything, mock.Anything, domain.SaleStatusCompleted).
		Return(sales, nil)

	b := newBuilder(saleRepo, new(mocks.MockPurchaseRepo), new(mocks.MockRegistryRepo))
	from, to := period()

	r, err := b.Build(context.Background(), from, to, domain.ReportSales)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.Equal(t, ncfB02, r.Records[0].FiscalNumber)
	assert.Equal(t, 1, r.Totals.RecordCount)
	assert.True(t, r.Totals.TaxableAmount.Equal(dec("100.00")))
	assert.True(t, r.Totals.TaxAmount.Equal(dec("18.00")))
}

func TestBuild_TaxDeviationIsWarningNotRejection(t *testing.T) {
	ncfB02 := "B0200000001"
	b02 := domain.NCFConsumo
	sales := []domain.Sale{{
		FiscalNumber: &ncfB02, DocumentType: &b02,
		// stored tax 10.00 but 18% of 100.00 is 18.00
		Subtotal: dec("100.00"), Tax: dec("10.00"), Total: dec("110.00"),
		CreatedAt: time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
	}}

	saleRepo := new(mocks.MockSaleRepo)
	saleRepo.On("ListByPeriod", mock.Anything, mock.Anything, mock.Anything, domain.SaleStatusCompleted).
		Return(sales, nil)

	b := newBuilder(saleRepo, new(mocks.MockPurchaseRepo), new(mocks.MockRegistryRepo))
	from, to := period()

	r, err := b.Build(context.Background(), from, to, domain.ReportSales)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.NotEmpty(t, r.Records[0].Warning)
	assert.Len(t, r.Warnings, 1)
}

func TestBuild_PurchaseSide(t *testing.T) {
	purchases := []domain.Purchase{{
		SupplierRNC:  "131246791",
		SupplierName: "FERRETERIA EL SOL SRL",
		FiscalNumber: "B0100004501",
		Subtotal:     dec("1000.00"), Tax: dec("180.00"), Total: dec("1180.00"),
		DocumentDate: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
	}}

	purchaseRepo := new(mocks.MockPurchaseRepo)
	purchaseRepo.On("ListByPeriod", mock.Anything, mock.Anything, mock.Anything, domain.SaleStatusCompleted).
		Return(purchases, nil)

	b := newBuilder(new(mocks.MockSaleRepo), purchaseRepo, new(mocks.MockRegistryRepo))
	from, to := period()

	r, err := b.Build(context.Background(), from, to, domain.ReportPurchases)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.Equal(t, "131246791", r.Records[0].Identifier)
	assert.Equal(t, "1", r.Records[0].IdentifierType)
	assert.True(t, r.Totals.ByType[domain.NCFCreditoFiscal].Equal(dec("1000.00")))
}

func TestBuild_UnknownKind(t *testing.T) {
	b := newBuilder(new(mocks.MockSaleRepo), new(mocks.MockPurchaseRepo), new(mocks.MockRegistryRepo))
	from, to := period()

	_, err := b.Build(context.Background(), from, to, domain.ReportKind("999"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
