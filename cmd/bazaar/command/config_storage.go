package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-bazaar/internal/market"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Characters  AssetConfig[*world.Character]   `json:"characters"`
	Races       AssetConfig[*world.Race]        `json:"races"`
	Goods       AssetConfig[*market.Good]       `json:"goods"`
	Vendors     AssetConfig[*market.VendorSpec] `json:"vendors"`
	VendorState AssetConfig[*market.VendorState] `json:"vendor_state"`
}

// Stores bundles the loaded asset stores with vendor good references
// already resolved.
type Stores struct {
	Characters  storage.Storer[*world.Character]
	Races       storage.Storer[*world.Race]
	Goods       storage.Storer[*market.Good]
	Vendors     storage.Storer[*market.VendorSpec]
	VendorState storage.Storer[*market.VendorState]
}

func (c *StorageConfig) BuildStores() (*Stores, error) {
	chars, err := c.Characters.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating character store: %w", err)
	}
	races, err := c.Races.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating race store: %w", err)
	}
	goods, err := c.Goods.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating good store: %w", err)
	}
	vendors, err := c.Vendors.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating vendor store: %w", err)
	}
	states, err := c.VendorState.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating vendor state store: %w", err)
	}

	for id, v := range vendors.GetAll() {
		if err := v.Resolve(goods); err != nil {
			return nil, fmt.Errorf("resolving vendor %s: %w", id, err)
		}
	}

	return &Stores{
		Characters:  chars,
		Races:       races,
		Goods:       goods,
		Vendors:     vendors,
		VendorState: states,
	}, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Characters.Validate("characters"))
	el.Add(c.Races.Validate("races"))
	el.Add(c.Goods.Validate("goods"))
	el.Add(c.Vendors.Validate("vendors"))
	el.Add(c.VendorState.Validate("vendor_state"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
