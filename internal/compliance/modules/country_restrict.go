package modules

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// CountryLookup resolves a wallet's country of record.
type CountryLookup interface {
	Country(ctx context.Context, wallet domain.Address) (domain.CountryCode, error)
}

// CountryRestrictParams lists blocked recipient countries.
type CountryRestrictParams struct {
	Countries []domain.CountryCode `json:"countries"`
}

// CountryRestrict blocks mints and transfers to wallets whose country of
// record is on the list. It holds no state.
type CountryRestrict struct {
	countries CountryLookup
}

func NewCountryRestrict(countries CountryLookup) *CountryRestrict {
	return &CountryRestrict{countries: countries}
}

func (m *CountryRestrict) Name() string { return "country_restrict" }

func (m *CountryRestrict) ValidateParameters(params []byte) error {
	p, err := decodeParams[CountryRestrictParams](params)
	if err != nil {
		return err
	}
	if len(p.Countries) == 0 {
		return fmt.Errorf("at least one country is required")
	}
	return nil
}

func (m *CountryRestrict) CanTransfer(ctx context.Context, b compliance.Binding, t compliance.Transfer) (bool, error) {
	if t.To.IsZero() {
		return true, nil
	}
	p, err := decodeParams[CountryRestrictParams](b.Params)
	if err != nil {
		return false, err
	}
	country, err := m.countries.Country(ctx, t.To)
	if err != nil {
		return false, fmt.Errorf("resolve recipient country: %w", err)
	}
	return !slices.Contains(p.Countries, country), nil
}

func (m *CountryRestrict) Created(context.Context, compliance.Binding, domain.Address, decimal.Decimal) error {
	return nil
}

func (m *CountryRestrict) Transferred(context.Context, compliance.Binding, compliance.Transfer) error {
	return nil
}

func (m *CountryRestrict) Destroyed(context.Context, compliance.Binding, domain.Address, decimal.Decimal) error {
	return nil
}
