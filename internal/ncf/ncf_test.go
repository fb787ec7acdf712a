package ncf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colmado/internal/domain"
	"colmado/internal/ncf"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "B0200000042", ncf.Format(domain.NCFConsumo, 42))
	assert.Equal(t, "B0100000001", ncf.Format(domain.NCFCreditoFiscal, 1))
	assert.Equal(t, "B0450000000", ncf.Format(domain.NCFNotaCredito, 50000000))
}

func TestParse(t *testing.T) {
	docType, n, err := ncf.Parse("B0200000042")
	require.NoError(t, err)
	assert.Equal(t, domain.NCFConsumo, docType)
	assert.Equal(t, int64(42), n)
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{"", "B02", "A0100000001", "B0200000O42", "B99000000001", "B9900000001"} {
		_, _, err := ncf.Parse(s)
		assert.ErrorIs(t, err, domain.ErrMalformedIdentifier, "input %q", s)
	}
}

func TestRoundTrip(t *testing.T) {
	s := ncf.Format(domain.NCFGubernamental, 987654)
	docType, n, err := ncf.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, domain.NCFGubernamental, docType)
	assert.Equal(t, int64(987654), n)
}

func TestCheckIssuable(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		seq  domain.FiscalSequence
		want error
	}{
		{"ok", domain.FiscalSequence{IsActive: true, CurrentNumber: 41, MaxNumber: 50000000}, nil},
		{"ok with future expiry", domain.FiscalSequence{IsActive: true, CurrentNumber: 41, MaxNumber: 50000000, ExpiresAt: &future}, nil},
		{"inactive", domain.FiscalSequence{IsActive: false, CurrentNumber: 0, MaxNumber: 100}, domain.ErrNoActiveSequence},
		{"exhausted", domain.FiscalSequence{IsActive: true, CurrentNumber: 100, MaxNumber: 100}, domain.ErrSequenceExhausted},
		{"expired", domain.FiscalSequence{IsActive: true, CurrentNumber: 41, MaxNumber: 50000000, ExpiresAt: &past}, domain.ErrSequenceExpired},
		{"expired wins over exhausted", domain.FiscalSequence{IsActive: true, CurrentNumber: 100, MaxNumber: 100, ExpiresAt: &past}, domain.ErrSequenceExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ncf.CheckIssuable(&tt.seq, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCheckIssuable_LastNumberIssuable(t *testing.T) {
	seq := domain.FiscalSequence{IsActive: true, CurrentNumber: 99, MaxNumber: 100}
	assert.NoError(t, ncf.CheckIssuable(&seq, time.Now()))
}
