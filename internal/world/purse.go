package world

import "github.com/pixil98/go-bazaar/internal/economy"

// Purse moves coin between a character's holdings and a vendor. The kind
// check happens before any balance is inspected: coin of the wrong economy
// is refused outright, whatever the amount.
type Purse struct {
	// Overflow is the most coin a character keeps on hand; deposits past
	// it spill into the bank so physical coin doesn't stack unbounded.
	Overflow int
}

func NewPurse(overflow int) *Purse {
	return &Purse{Overflow: overflow}
}

// Withdraw takes amount from the character, on-hand coin first, falling
// back to the bank for any shortfall. Returns false, with no partial
// effects, on a kind mismatch or insufficient combined funds.
func (p *Purse) Withdraw(c *Character, amount int, kind economy.Kind) bool {
	if amount < 0 || c.Kind() != kind {
		return false
	}

	if c.Purse >= amount {
		c.Purse -= amount
		return true
	}

	if c.Purse+c.Bank >= amount {
		c.Bank -= amount - c.Purse
		c.Purse = 0
		return true
	}

	return false
}

// Deposit pays amount to the character, on hand up to the overflow
// threshold and the remainder into the bank. Returns false on a kind
// mismatch.
func (p *Purse) Deposit(c *Character, amount int, kind economy.Kind) bool {
	if amount < 0 || c.Kind() != kind {
		return false
	}

	c.Purse += amount
	if p.Overflow > 0 && c.Purse > p.Overflow {
		c.Bank += c.Purse - p.Overflow
		c.Purse = p.Overflow
	}
	return true
}
