package market

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// VendorState is the persisted slice of a vendor: current stock per good
// slot, keyed by display name. Session state and expiry counters are
// transient and reset on reload.
type VendorState struct {
	Stock map[string]int `json:"stock"`
}

// Validate satisfies storage.ValidatingSpec
func (s *VendorState) Validate() error {
	el := errors.NewErrorList()

	for name, n := range s.Stock {
		if n < 0 {
			el.Add(fmt.Errorf("stock for %q must not be negative", name))
		}
	}

	return el.Err()
}
