// Package modules contains the compliance rules shipped with the ledger.
// Parameters are JSON documents validated when a module is bound.
package modules

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func decodeParams[T any](raw []byte) (T, error) {
	var p T
	if len(raw) == 0 {
		return p, fmt.Errorf("parameters are required")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decode parameters: %w", err)
	}
	return p, nil
}

func requirePositive(name string, v decimal.Decimal) error {
	if !v.IsPositive() || !v.IsInteger() {
		return fmt.Errorf("%s must be a positive integer amount", name)
	}
	return nil
}
