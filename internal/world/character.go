package world

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-errors"
)

// Character represents a player character in the world.
type Character struct {
	// Name is the character's display name
	Name string `json:"name"`

	// Password is the bcrypt-hashed login credential
	Password string `json:"password"`

	// Race decides the character's currency kind
	Race storage.SmartIdentifier[*Race] `json:"race"`

	// Purse is coin carried on hand; Bank is the custodial account coin
	// overflows into. Both are denominated in the race's currency kind.
	Purse int `json:"purse"`
	Bank  int `json:"bank"`

	// Inventory holds tradable goods on hand
	Inventory *Inventory `json:"inventory,omitempty"`

	// LastRoom is where the character was on quit, restored on login
	LastRoom storage.Identifier `json:"last_room,omitempty"`
}

func (c *Character) UnmarshalJSON(b []byte) error {
	type Alias Character
	if err := json.Unmarshal(b, (*Alias)(c)); err != nil {
		return err
	}
	if c.Inventory == nil {
		c.Inventory = NewInventory()
	}
	return nil
}

func NewCharacter(name, pass string, race storage.SmartIdentifier[*Race]) *Character {
	return &Character{
		Name:      name,
		Password:  pass,
		Race:      race,
		Inventory: NewInventory(),
	}
}

// Kind returns the character's currency kind, from the resolved race.
func (c *Character) Kind() economy.Kind {
	r := c.Race.Get()
	if r == nil {
		return economy.KindUnknown
	}
	return r.Currency
}

// MatchName returns true if name matches this character's name (case-insensitive).
func (c *Character) MatchName(name string) bool {
	return strings.EqualFold(c.Name, name)
}

// Resolve resolves the character's race from the dictionary.
func (c *Character) Resolve(races storage.Storer[*Race]) error {
	return c.Race.Resolve(races)
}

// Validate satisfies storage.ValidatingSpec
func (c *Character) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("character name is required"))
	}
	if c.Password == "" {
		el.Add(fmt.Errorf("character password is required"))
	}
	el.Add(c.Race.Validate())
	if c.Purse < 0 {
		el.Add(fmt.Errorf("purse must not be negative"))
	}
	if c.Bank < 0 {
		el.Add(fmt.Errorf("bank must not be negative"))
	}

	return el.Err()
}
