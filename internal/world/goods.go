package world

import "github.com/pixil98/go-bazaar/internal/storage"

// GoodInstance is one concrete unit of a tradable good held by a character.
// Instances are minted when a vendor delivers and destroyed when a vendor
// accepts them back.
type GoodInstance struct {
	InstanceId string             `json:"instance_id"`
	GoodId     storage.Identifier `json:"good_id"`
}

// Inventory holds the good instances a character carries.
type Inventory struct {
	Items map[string]*GoodInstance `json:"items,omitempty"`
}

func NewInventory() *Inventory {
	return &Inventory{
		Items: make(map[string]*GoodInstance),
	}
}

// Add adds a good instance to the inventory.
func (inv *Inventory) Add(gi *GoodInstance) {
	if inv.Items == nil {
		inv.Items = make(map[string]*GoodInstance)
	}
	inv.Items[gi.InstanceId] = gi
}

// Count returns how many instances of the given good kind are held.
func (inv *Inventory) Count(goodId storage.Identifier) int {
	n := 0
	for _, gi := range inv.Items {
		if gi.GoodId == goodId {
			n++
		}
	}
	return n
}

// RemoveKind removes up to n instances of the given good kind and returns
// how many were actually removed.
func (inv *Inventory) RemoveKind(goodId storage.Identifier, n int) int {
	removed := 0
	for id, gi := range inv.Items {
		if removed == n {
			break
		}
		if gi.GoodId == goodId {
			delete(inv.Items, id)
			removed++
		}
	}
	return removed
}
