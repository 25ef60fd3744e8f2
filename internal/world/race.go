package world

import (
	"fmt"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-errors"
)

// Race defines a playable race loaded from asset files. The race decides
// which economy a character belongs to: coins are minted per race tier and
// vendors only serve their own.
type Race struct {
	Name         string       `json:"name"`
	Abbreviation string       `json:"abbreviation"`
	Currency     economy.Kind `json:"currency"`
}

func (r *Race) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("race name is required"))
	}
	if r.Currency == economy.KindUnknown {
		el.Add(fmt.Errorf("race currency is required"))
	}

	return el.Err()
}

func (r *Race) Selector() string {
	return r.Name
}
