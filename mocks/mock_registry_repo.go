package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"colmado/internal/domain"
)

// MockRegistryRepo is a mock implementation of port.RegistryRepository.
type MockRegistryRepo struct {
	mock.Mock
}

func (m *MockRegistryRepo) GetByTaxID(ctx context.Context, taxID string) (*domain.TaxpayerEntry, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxpayerEntry), args.Error(1)
}

func (m *MockRegistryRepo) LastSyncedAt(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRegistryRepo) BulkUpsert(ctx context.Context, entries []domain.TaxpayerEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}
