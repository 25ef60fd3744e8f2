package economy

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Direction is the player's side of a trade. A buy moves stock from the
// vendor to the player, a sell moves it the other way.
type Direction int

const (
	DirectionBuy Direction = iota
	DirectionSell
)

var ErrInsufficientStock = fmt.Errorf("insufficient stock")

// Tuning holds the pricing constants. These are configuration, not law:
// the defaults match the classic balance but operators can retune them.
type Tuning struct {
	// BaseRate is the unit price of a good with rate multiplier 1.0 when
	// stock is empty (maximum scarcity).
	BaseRate float64 `json:"base_rate"`

	// Saturation is the stock level, per unit of rate multiplier, at which
	// the price bottoms out at PriceFloor.
	Saturation float64 `json:"saturation"`

	// PriceFloor is the minimum unit price regardless of stock.
	PriceFloor int `json:"price_floor"`

	// ChunkSize bounds how many units are priced at once. Larger orders
	// are settled chunk by chunk, repricing against the mutated stock
	// between chunks.
	ChunkSize int `json:"chunk_size"`

	// Markup scales the total a player pays when buying; Markdown scales
	// the total a vendor pays when buying back. The spread keeps a vendor
	// from being arbitraged against itself.
	Markup   float64 `json:"markup"`
	Markdown float64 `json:"markdown"`
}

func DefaultTuning() Tuning {
	return Tuning{
		BaseRate:   100,
		Saturation: 100,
		PriceFloor: 5,
		ChunkSize:  10,
		Markup:     1.15,
		Markdown:   0.85,
	}
}

func (t *Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.BaseRate <= 0 {
		el.Add(fmt.Errorf("base_rate must be positive"))
	}
	if t.Saturation <= 0 {
		el.Add(fmt.Errorf("saturation must be positive"))
	}
	if t.PriceFloor < 0 {
		el.Add(fmt.Errorf("price_floor must not be negative"))
	}
	if t.ChunkSize < 1 {
		el.Add(fmt.Errorf("chunk_size must be at least 1"))
	}
	if t.Markup < 1 {
		el.Add(fmt.Errorf("markup must be at least 1"))
	}
	if t.Markdown <= 0 || t.Markdown > 1 {
		el.Add(fmt.Errorf("markdown must be in (0, 1]"))
	}

	return el.Err()
}

// Pricing derives unit prices from stock levels and settles trade totals.
// It never touches currency; it only computes numbers and mutates stock.
type Pricing struct {
	t Tuning
}

func NewPricing(t Tuning) *Pricing {
	return &Pricing{t: t}
}

// Quote returns the unit price for a good with the given rate multiplier at
// the given stock level. Price falls as stock rises and is clamped at the
// floor; empty stock quotes the full scarcity price.
func (p *Pricing) Quote(mult float64, stock int) int {
	base := mult * p.t.BaseRate
	sat := mult * p.t.Saturation

	unit := int(base) - int(base/sat*float64(stock))
	if unit < p.t.PriceFloor {
		unit = p.t.PriceFloor
	}
	return unit
}

// Cost settles qty units in chunks, repricing after each chunk so a bulk
// order costs exactly what the same units would in sequential smaller
// trades. It returns the marked-up (buy) or marked-down (sell) total and
// the resulting stock. A buy larger than the available stock fails before
// any chunk is priced.
func (p *Pricing) Cost(mult float64, stock, qty int, dir Direction) (int, int, error) {
	if qty < 1 {
		return 0, stock, fmt.Errorf("quantity must be at least 1")
	}
	if dir == DirectionBuy && qty > stock {
		return 0, stock, ErrInsufficientStock
	}

	spread := p.t.Markup
	if dir == DirectionSell {
		spread = p.t.Markdown
	}

	// The spread is applied per chunk, not once at the end, so that a bulk
	// order totals exactly what the same units would cost as a sequence of
	// chunk-sized trades.
	total := 0
	remaining := qty
	for remaining > 0 {
		n := remaining
		if n > p.t.ChunkSize {
			n = p.t.ChunkSize
		}

		total += int(float64(p.Quote(mult, stock)*n) * spread)

		if dir == DirectionBuy {
			stock -= n
		} else {
			stock += n
		}
		remaining -= n
	}

	return total, stock, nil
}
