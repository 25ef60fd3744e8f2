package command

import (
	"fmt"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/market"
	"github.com/pixil98/go-errors"
)

const (
	defaultExpiryTicks   = 30
	defaultPurseOverflow = 10000
)

// MarketConfig tunes the commerce engine. The pricing and decay blocks
// are optional; leaving them out takes the stock balance.
type MarketConfig struct {
	DefaultRoom string `json:"default_room"`

	Pricing *economy.Tuning     `json:"pricing,omitempty"`
	Decay   *market.DecayTuning `json:"decay,omitempty"`

	// ExpiryTicks is how many driver ticks a vendor waits on a pending
	// trade before giving up on the customer
	ExpiryTicks int `json:"expiry_ticks,omitempty"`

	// PurseOverflow is the most coin a character keeps on hand before
	// deposits spill into the bank
	PurseOverflow int `json:"purse_overflow,omitempty"`
}

func (c *MarketConfig) validate() error {
	el := errors.NewErrorList()

	if c.DefaultRoom == "" {
		el.Add(fmt.Errorf("default_room is required"))
	}
	if c.Pricing != nil {
		el.Add(c.Pricing.Validate())
	}
	if c.Decay != nil {
		el.Add(c.Decay.Validate())
	}
	if c.ExpiryTicks < 0 {
		el.Add(fmt.Errorf("expiry_ticks must not be negative"))
	}
	if c.PurseOverflow < 0 {
		el.Add(fmt.Errorf("purse_overflow must not be negative"))
	}

	return el.Err()
}

func (c *MarketConfig) tuning() economy.Tuning {
	if c.Pricing != nil {
		return *c.Pricing
	}
	return economy.DefaultTuning()
}

func (c *MarketConfig) decayTuning() market.DecayTuning {
	if c.Decay != nil {
		return *c.Decay
	}
	return market.DefaultDecayTuning()
}

func (c *MarketConfig) expiryTicks() int {
	if c.ExpiryTicks > 0 {
		return c.ExpiryTicks
	}
	return defaultExpiryTicks
}

func (c *MarketConfig) purseOverflow() int {
	if c.PurseOverflow > 0 {
		return c.PurseOverflow
	}
	return defaultPurseOverflow
}
