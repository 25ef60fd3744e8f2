package market

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-errors"
)

// Good defines a kind of tradable commodity loaded from asset files.
// Vendors reference goods by identifier; the display name players haggle
// with lives on the vendor's slot, not here.
type Good struct {
	// Name is the canonical name of the commodity (e.g., "bread")
	Name string `json:"name"`

	// Unit is the unit a single instance represents (e.g., "loaf")
	Unit string `json:"unit"`

	// ShortDesc is used in trade messages (e.g., "a fresh loaf of bread")
	ShortDesc string `json:"short_desc"`
}

// Validate satisfies storage.ValidatingSpec
func (g *Good) Validate() error {
	el := errors.NewErrorList()

	if g.Name == "" {
		el.Add(fmt.Errorf("good name is required"))
	}
	if g.Unit == "" {
		el.Add(fmt.Errorf("good unit is required"))
	}

	return el.Err()
}

// GoodFactory mints concrete units for delivery and recognizes units a
// player offers for sale.
type GoodFactory interface {
	Mint(goodId storage.Identifier) *world.GoodInstance
	Matches(gi *world.GoodInstance, goodId storage.Identifier) bool
}

// MintFactory is the default factory: instances are uuid-tagged units of
// their good kind.
type MintFactory struct{}

func (MintFactory) Mint(goodId storage.Identifier) *world.GoodInstance {
	return &world.GoodInstance{
		InstanceId: uuid.NewString(),
		GoodId:     goodId,
	}
}

func (MintFactory) Matches(gi *world.GoodInstance, goodId storage.Identifier) bool {
	return gi != nil && gi.GoodId == goodId
}
