package modules

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

var (
	complianceA = domain.BytesToAddress([]byte{0xa1})
	complianceB = domain.BytesToAddress([]byte{0xb1})
	alice       = domain.BytesToAddress([]byte{0x01})
	bob         = domain.BytesToAddress([]byte{0x02})
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSupplyLimit(t *testing.T) {
	ctx := context.Background()
	m := NewSupplyLimit()
	b := compliance.Binding{Compliance: complianceA, Params: []byte(`{"limit":"1000"}`)}

	t.Run("parameters", func(t *testing.T) {
		require.NoError(t, m.ValidateParameters(b.Params))
		assert.Error(t, m.ValidateParameters(nil))
		assert.Error(t, m.ValidateParameters([]byte(`{"limit":"0"}`)))
		assert.Error(t, m.ValidateParameters([]byte(`{"limit":"1.5"}`)))
		assert.Error(t, m.ValidateParameters([]byte(`not json`)))
	})

	t.Run("mint within limit passes and supply is tracked", func(t *testing.T) {
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(1000)})
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, m.Created(ctx, b, alice, amt(600)))
		assert.True(t, m.Supply(complianceA).Equal(amt(600)))
	})

	t.Run("mint beyond limit is vetoed", func(t *testing.T) {
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(401)})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("transfers are not limited", func(t *testing.T) {
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{From: alice, To: bob, Amount: amt(5000)})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("supply is kept per compliance instance", func(t *testing.T) {
		other := compliance.Binding{Compliance: complianceB, Params: b.Params}
		ok, err := m.CanTransfer(ctx, other, compliance.Transfer{To: alice, Amount: amt(1000)})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, m.Supply(complianceB).IsZero())
	})

	t.Run("checkpoint restores supply", func(t *testing.T) {
		restore := m.Checkpoint(complianceA)
		require.NoError(t, m.Created(ctx, b, alice, amt(100)))
		restore()
		assert.True(t, m.Supply(complianceA).Equal(amt(600)))
	})

	t.Run("checkpoint leaves other compliance instances alone", func(t *testing.T) {
		other := compliance.Binding{Compliance: complianceB, Params: b.Params}
		restore := m.Checkpoint(complianceA)
		require.NoError(t, m.Created(ctx, b, alice, amt(100)))
		require.NoError(t, m.Created(ctx, other, alice, amt(70)))
		restore()
		assert.True(t, m.Supply(complianceA).Equal(amt(600)))
		assert.True(t, m.Supply(complianceB).Equal(amt(70)))
		require.NoError(t, m.Destroyed(ctx, other, alice, amt(70)))
	})

	t.Run("burn reduces supply and clamps at zero", func(t *testing.T) {
		require.NoError(t, m.Destroyed(ctx, b, alice, amt(100)))
		assert.True(t, m.Supply(complianceA).Equal(amt(500)))
		require.NoError(t, m.Destroyed(ctx, b, alice, amt(900)))
		assert.True(t, m.Supply(complianceA).IsZero())
	})

	t.Run("seeded supply counts toward the limit", func(t *testing.T) {
		m.Seed(complianceA, amt(950))
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(51)})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMaxBalance(t *testing.T) {
	ctx := context.Background()
	m := NewMaxBalance()
	b := compliance.Binding{Compliance: complianceA, Params: []byte(`{"max":"500"}`)}

	require.NoError(t, m.ValidateParameters(b.Params))
	assert.Error(t, m.ValidateParameters([]byte(`{"max":"-1"}`)))

	ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(500)})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, m.Created(ctx, b, alice, amt(500)))

	ok, err = m.CanTransfer(ctx, b, compliance.Transfer{From: bob, To: alice, Amount: amt(1)})
	require.NoError(t, err)
	assert.False(t, ok, "recipient already at cap")

	require.NoError(t, m.Transferred(ctx, b, compliance.Transfer{From: alice, To: bob, Amount: amt(200)}))
	assert.True(t, m.Balance(complianceA, alice).Equal(amt(300)))
	assert.True(t, m.Balance(complianceA, bob).Equal(amt(200)))

	restore := m.Checkpoint(complianceA)
	require.NoError(t, m.Destroyed(ctx, b, bob, amt(200)))
	assert.True(t, m.Balance(complianceA, bob).IsZero())
	restore()
	assert.True(t, m.Balance(complianceA, bob).Equal(amt(200)))

	ok, err = m.CanTransfer(ctx, b, compliance.Transfer{From: alice, Amount: amt(300)})
	require.NoError(t, err)
	assert.True(t, ok, "burns are never capped")
}

func TestMaxBalanceCheckpointIsPerInstance(t *testing.T) {
	ctx := context.Background()
	m := NewMaxBalance()
	a := compliance.Binding{Compliance: complianceA, Params: []byte(`{"max":"500"}`)}
	b := compliance.Binding{Compliance: complianceB, Params: a.Params}

	restore := m.Checkpoint(complianceA)
	require.NoError(t, m.Created(ctx, a, alice, amt(10)))
	require.NoError(t, m.Created(ctx, b, alice, amt(20)))
	restore()

	assert.True(t, m.Balance(complianceA, alice).IsZero())
	assert.True(t, m.Balance(complianceB, alice).Equal(amt(20)))
}

type ledgerState struct {
	supply   decimal.Decimal
	holdings map[domain.Address]decimal.Decimal
	err      error
}

func (l ledgerState) TotalSupply(context.Context) (decimal.Decimal, error) {
	return l.supply, l.err
}

func (l ledgerState) Holdings(context.Context) (map[domain.Address]decimal.Decimal, error) {
	return l.holdings, l.err
}

func TestBoundSeedsFromLedger(t *testing.T) {
	ctx := context.Background()
	state := ledgerState{
		supply:   amt(900),
		holdings: map[domain.Address]decimal.Decimal{alice: amt(450), bob: amt(450)},
	}

	t.Run("supply limit counts existing supply", func(t *testing.T) {
		m := NewSupplyLimit().SeedFrom(state)
		b := compliance.Binding{Compliance: complianceA, Params: []byte(`{"limit":"1000"}`)}
		require.NoError(t, m.Bound(ctx, b))
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(101)})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("max balance mirrors existing holdings", func(t *testing.T) {
		m := NewMaxBalance().SeedFrom(state)
		b := compliance.Binding{Compliance: complianceA, Params: []byte(`{"max":"500"}`)}
		require.NoError(t, m.Bound(ctx, b))
		ok, err := m.CanTransfer(ctx, b, compliance.Transfer{From: bob, To: alice, Amount: amt(51)})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, m.Balance(complianceA, bob).Equal(amt(450)))
	})

	t.Run("source failure aborts binding", func(t *testing.T) {
		failing := ledgerState{err: errors.New("ledger unavailable")}
		assert.Error(t, NewSupplyLimit().SeedFrom(failing).Bound(ctx, compliance.Binding{Compliance: complianceA}))
		assert.Error(t, NewMaxBalance().SeedFrom(failing).Bound(ctx, compliance.Binding{Compliance: complianceA}))
	})

	t.Run("without a source binding keeps current state", func(t *testing.T) {
		m := NewSupplyLimit()
		m.Seed(complianceA, amt(5))
		require.NoError(t, m.Bound(ctx, compliance.Binding{Compliance: complianceA}))
		assert.True(t, m.Supply(complianceA).Equal(amt(5)))
	})
}

type countryTable map[domain.Address]domain.CountryCode

func (c countryTable) Country(_ context.Context, wallet domain.Address) (domain.CountryCode, error) {
	code, ok := c[wallet]
	if !ok {
		return 0, errors.New("unknown wallet")
	}
	return code, nil
}

func TestCountryRestrict(t *testing.T) {
	ctx := context.Background()
	m := NewCountryRestrict(countryTable{alice: 250, bob: 840})
	b := compliance.Binding{Compliance: complianceA, Params: []byte(`{"countries":[840]}`)}

	require.NoError(t, m.ValidateParameters(b.Params))
	assert.Error(t, m.ValidateParameters([]byte(`{"countries":[]}`)))

	ok, err := m.CanTransfer(ctx, b, compliance.Transfer{To: alice, Amount: amt(1)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.CanTransfer(ctx, b, compliance.Transfer{From: alice, To: bob, Amount: amt(1)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.CanTransfer(ctx, b, compliance.Transfer{From: bob, Amount: amt(1)})
	require.NoError(t, err)
	assert.True(t, ok, "burns skip the recipient check")

	_, err = m.CanTransfer(ctx, b, compliance.Transfer{To: domain.BytesToAddress([]byte{0x99}), Amount: amt(1)})
	assert.Error(t, err)
}
