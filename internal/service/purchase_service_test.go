package service_test

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
	"colmado/internal/service"
	"colmado/mocks"
)

func newPurchaseService() (service.PurchaseService, *mocks.MockPurchaseRepo, *mocks.MockRegistryRepo) {
	purchaseRepo := new(mocks.MockPurchaseRepo)
	registryRepo := new(mocks.MockRegistryRepo)
	validator := registry.NewValidator(registryRepo, 30*24*time.Hour)
	svc := service.NewPurchaseService(purchaseRepo, validator)
	return svc, purchaseRepo, registryRepo
}

func TestPurchaseRecord(t *testing.T) {
	svc, purchaseRepo, _ := newPurchaseService()

	purchaseRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Purchase) bool {
		return p.SupplierRNC == "131234567" && p.FiscalNumber == "B0100004021"
	})).Return(nil)

	p, err := svc.Record(context.Background(), &service.RecordPurchaseInput{
		SupplierRNC:  "1-31-23456-7",
		SupplierName: "Distribuidora Norte SRL",
		FiscalNumber: "B0100004021",
		Subtotal:     decimal.RequireFromString("1000.00"),
		Tax:          decimal.RequireFromString("180.00"),
		Total:        decimal.RequireFromString("1180.00"),
		DocumentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "131234567", p.SupplierRNC)
	purchaseRepo.AssertExpectations(t)
}

func TestPurchaseRecord_InvalidNCF(t *testing.T) {
	svc, purchaseRepo, _ := newPurchaseService()

	_, err := svc.Record(context.Background(), &service.RecordPurchaseInput{
		SupplierRNC:  "131234567",
		FiscalNumber: "X9900000001",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	purchaseRepo.AssertNotCalled(t, "Create")
}

func TestPurchaseRecord_SupplierNotRNC(t *testing.T) {
	svc, purchaseRepo, registryRepo := newPurchaseService()

	// An 11-digit identifier with no registry match is a cedula, and a
	// cedula holder cannot issue credito fiscal invoices.
	registryRepo.On("GetByTaxID", mock.Anything, "00112345678").Return(nil, domain.ErrNotFound)

	_, err := svc.Record(context.Background(), &service.RecordPurchaseInput{
		SupplierRNC:  "00112345678",
		FiscalNumber: "B0100000001",
	})
	assert.ErrorIs(t, err, domain.ErrTaxpayerNotRegistered)
	purchaseRepo.AssertNotCalled(t, "Create")
}

func TestPurchaseRecord_NegativeAmounts(t *testing.T) {
	svc, purchaseRepo, _ := newPurchaseService()

	_, err := svc.Record(context.Background(), &service.RecordPurchaseInput{
		SupplierRNC:  "131234567",
		FiscalNumber: "B0100000001",
		Subtotal:     decimal.RequireFromString("-5.00"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	purchaseRepo.AssertNotCalled(t, "Create")
}
