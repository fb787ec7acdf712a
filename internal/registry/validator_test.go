package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"colmado/internal/domain"
	"colmado/internal/registry"
	"colmado/mocks"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "131246791", registry.Normalize("1-31-24679-1"))
	assert.Equal(t, "00112345678", registry.Normalize("001-1234567-8"))
	assert.Equal(t, "", registry.Normalize("ABC"))
}

func TestClassify_NineDigitsIsRNC(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	kind, err := v.Classify(context.Background(), "1-31-24679-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentifierRNC, kind)
	repo.AssertNotCalled(t, "GetByTaxID")
}

func TestClassify_ElevenDigitsWithRegistryMatchIsRNC(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	entry := &domain.TaxpayerEntry{TaxID: "00112345678", Status: domain.TaxpayerActive}
	repo.On("GetByTaxID", mock.Anything, "00112345678").Return(entry, nil)

	kind, err := v.Classify(context.Background(), "001-1234567-8")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentifierRNC, kind)
	repo.AssertExpectations(t)
}

func TestClassify_ElevenDigitsWithoutMatchIsCedula(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	repo.On("GetByTaxID", mock.Anything, "00112345678").Return(nil, domain.ErrNotFound)

	kind, err := v.Classify(context.Background(), "001-1234567-8")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentifierCedula, kind)
}

func TestClassify_AlphanumericIsPassport(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	kind, err := v.Classify(context.Background(), "PA1234567")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentifierPassport, kind)
}

func TestClassify_Malformed(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	_, err := v.Classify(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMalformedIdentifier)

	_, err = v.Classify(context.Background(), "12345")
	assert.ErrorIs(t, err, domain.ErrMalformedIdentifier)
}

func TestIsRegisteredAndActive(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	entry := &domain.TaxpayerEntry{
		TaxID: "131246791", LegalName: "FERRETERIA EL SOL SRL",
		Status: domain.TaxpayerActive, LastSynced: time.Now(),
	}
	repo.On("GetByTaxID", mock.Anything, "131246791").Return(entry, nil)

	res, err := v.IsRegisteredAndActive(context.Background(), "1-31-24679-1")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, "FERRETERIA EL SOL SRL", res.LegalName)
	assert.Empty(t, res.StaleWarning)
}

func TestIsRegisteredAndActive_SuspendedIsNotActive(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	entry := &domain.TaxpayerEntry{TaxID: "131246791", Status: domain.TaxpayerSuspended, LastSynced: time.Now()}
	repo.On("GetByTaxID", mock.Anything, "131246791").Return(entry, nil)

	res, err := v.IsRegisteredAndActive(context.Background(), "131246791")
	require.NoError(t, err)
	assert.False(t, res.Registered)
}

func TestIsRegisteredAndActive_UnknownIDIsNotAnError(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	repo.On("GetByTaxID", mock.Anything, "999999999").Return(nil, domain.ErrNotFound)
	repo.On("LastSyncedAt", mock.Anything).Return(time.Now(), nil)

	res, err := v.IsRegisteredAndActive(context.Background(), "999999999")
	require.NoError(t, err)
	assert.False(t, res.Registered)
}

func TestIsRegisteredAndActive_StaleEntryWarnsButPasses(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 24*time.Hour)

	entry := &domain.TaxpayerEntry{
		TaxID: "131246791", Status: domain.TaxpayerActive,
		LastSynced: time.Now().Add(-72 * time.Hour),
	}
	repo.On("GetByTaxID", mock.Anything, "131246791").Return(entry, nil)

	res, err := v.IsRegisteredAndActive(context.Background(), "131246791")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.NotEmpty(t, res.StaleWarning)
}

func TestIsRegisteredAndActive_MalformedID(t *testing.T) {
	repo := new(mocks.MockRegistryRepo)
	v := registry.NewValidator(repo, 0)

	_, err := v.IsRegisteredAndActive(context.Background(), "12-34")
	assert.ErrorIs(t, err, domain.ErrMalformedIdentifier)
}
