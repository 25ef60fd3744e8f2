package market

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-errors"
)

// MaxGoodSlots is how many goods one vendor can deal in.
const MaxGoodSlots = 4

// GoodSlotSpec configures one of a vendor's tradable goods.
type GoodSlotSpec struct {
	// Good references the commodity definition
	Good storage.SmartIdentifier[*Good] `json:"good"`

	// DisplayName is the player-facing name, and the key speech is
	// matched against
	DisplayName string `json:"display_name"`

	// Stock is the starting stock, used when no persisted ledger exists
	Stock int `json:"stock"`

	// RateMultiplier scales both the price ceiling and the stock level
	// at which the price bottoms out. Fixed at vendor creation.
	RateMultiplier float64 `json:"rate_multiplier"`
}

// VendorSpec defines a vendor loaded from asset files.
type VendorSpec struct {
	// Name is the vendor's display name (e.g., "Hilda the baker")
	Name string `json:"name"`

	// Room is where the vendor stands; only speech in this room is heard
	Room storage.Identifier `json:"room"`

	// Currency is the only coin kind this vendor accepts or pays
	Currency economy.Kind `json:"currency"`

	// ExchangeOnly vendors deal in coin, not goods; trade keywords get a
	// polite brush-off instead of opening a session
	ExchangeOnly bool `json:"exchange_only,omitempty"`

	Slots []GoodSlotSpec `json:"slots,omitempty"`

	// Phrases optionally overrides the vendor's stock lines
	Phrases *Phrases `json:"phrases,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (v *VendorSpec) Validate() error {
	el := errors.NewErrorList()

	if v.Name == "" {
		el.Add(fmt.Errorf("vendor name is required"))
	}
	if v.Room == "" {
		el.Add(fmt.Errorf("vendor room is required"))
	}
	if v.Currency == economy.KindUnknown {
		el.Add(fmt.Errorf("vendor currency is required"))
	}
	if len(v.Slots) > MaxGoodSlots {
		el.Add(fmt.Errorf("vendor may have at most %d good slots", MaxGoodSlots))
	}
	if !v.ExchangeOnly && len(v.Slots) == 0 {
		el.Add(fmt.Errorf("vendor needs at least one good slot"))
	}

	mults := map[float64]bool{}
	for i, slot := range v.Slots {
		el.Add(slot.Good.Validate())
		if slot.DisplayName == "" {
			el.Add(fmt.Errorf("slot %d: display_name is required", i+1))
		}
		if slot.Stock < 0 {
			el.Add(fmt.Errorf("slot %d: stock must not be negative", i+1))
		}
		if slot.RateMultiplier <= 0 {
			el.Add(fmt.Errorf("slot %d: rate_multiplier must be positive", i+1))
		}
		if mults[slot.RateMultiplier] {
			el.Add(fmt.Errorf("slot %d: rate_multiplier must be unique per slot", i+1))
		}
		mults[slot.RateMultiplier] = true
	}

	return el.Err()
}

// Resolve resolves good references from the store.
func (v *VendorSpec) Resolve(goods storage.Storer[*Good]) error {
	el := errors.NewErrorList()
	for i := range v.Slots {
		el.Add(v.Slots[i].Good.Resolve(goods))
	}
	return el.Err()
}

// GoodSlot is one live tradable good: the spec's configuration plus the
// current stock. The unit price is always derived from stock at quote
// time, never stored.
type GoodSlot struct {
	GoodId         storage.Identifier
	DisplayName    string
	Unit           string
	Stock          int
	RateMultiplier float64
}

// Ledger moves coin between a character's holdings and the vendor. It
// knows nothing about goods or prices.
type Ledger interface {
	Withdraw(c *world.Character, amount int, kind economy.Kind) bool
	Deposit(c *world.Character, amount int, kind economy.Kind) bool
}

// Reply is one line a vendor says back: to the whole room, or quietly to
// the speaker.
type Reply struct {
	ToRoom bool
	Text   string
}

// DecayTuning configures the slow loss of stock between player visits.
type DecayTuning struct {
	// Interval is how many driver ticks pass between decay sweeps
	Interval int `json:"interval"`

	// Chance is the per-slot probability of losing stock in one sweep
	Chance float64 `json:"chance"`

	// MaxLoss bounds how many units one sweep can take from a slot
	MaxLoss int `json:"max_loss"`

	// Floor is the stock level decay never drops below
	Floor int `json:"floor"`
}

func DefaultDecayTuning() DecayTuning {
	return DecayTuning{
		Interval: 20,
		Chance:   0.05,
		MaxLoss:  3,
		Floor:    2,
	}
}

func (t *DecayTuning) Validate() error {
	el := errors.NewErrorList()

	if t.Interval < 1 {
		el.Add(fmt.Errorf("interval must be at least 1"))
	}
	if t.Chance < 0 || t.Chance > 1 {
		el.Add(fmt.Errorf("chance must be in [0, 1]"))
	}
	if t.MaxLoss < 1 {
		el.Add(fmt.Errorf("max_loss must be at least 1"))
	}
	if t.Floor < 0 {
		el.Add(fmt.Errorf("floor must not be negative"))
	}

	return el.Err()
}

// VendorInstance is a live vendor: good slots, the one-buyer-one-seller
// transaction session, and the decay counter. All mutation happens on the
// manager's goroutine, one speech event or tick at a time.
type VendorInstance struct {
	id   storage.Identifier
	spec *VendorSpec

	slots   []*GoodSlot
	session *economy.Session
	pricing *economy.Pricing
	phrases *phraseSet
	ledger  Ledger
	factory GoodFactory

	decay      DecayTuning
	decayTicks int
	rng        *rand.Rand

	// dirty marks unsaved stock changes
	dirty bool
}

func NewVendorInstance(id storage.Identifier, spec *VendorSpec, pricing *economy.Pricing, ledger Ledger, factory GoodFactory, expiryTicks int, decay DecayTuning) (*VendorInstance, error) {
	phrases, err := compilePhrases(spec.Phrases)
	if err != nil {
		return nil, fmt.Errorf("vendor %s: %w", id, err)
	}

	slots := make([]*GoodSlot, len(spec.Slots))
	for i, ss := range spec.Slots {
		good := ss.Good.Get()
		if good == nil {
			return nil, fmt.Errorf("vendor %s: slot %d good not resolved", id, i+1)
		}
		slots[i] = &GoodSlot{
			GoodId:         storage.Identifier(ss.Good.Key()),
			DisplayName:    ss.DisplayName,
			Unit:           good.Unit,
			Stock:          ss.Stock,
			RateMultiplier: ss.RateMultiplier,
		}
	}

	return &VendorInstance{
		id:      id,
		spec:    spec,
		slots:   slots,
		session: economy.NewSession(expiryTicks),
		pricing: pricing,
		phrases: phrases,
		ledger:  ledger,
		factory: factory,
		decay:   decay,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (v *VendorInstance) Id() storage.Identifier {
	return v.id
}

func (v *VendorInstance) Room() storage.Identifier {
	return v.spec.Room
}

func (v *VendorInstance) Name() string {
	return v.spec.Name
}

// Dirty reports unsaved stock changes; ClearDirty acknowledges a save.
func (v *VendorInstance) Dirty() bool {
	return v.dirty
}

func (v *VendorInstance) ClearDirty() {
	v.dirty = false
}

// RestoreStock applies a persisted stock ledger, keyed by display name.
// Slots absent from the ledger keep their configured starting stock.
func (v *VendorInstance) RestoreStock(state *VendorState) {
	if state == nil {
		return
	}
	for _, slot := range v.slots {
		if n, ok := state.Stock[slot.DisplayName]; ok && n >= 0 {
			slot.Stock = n
		}
	}
}

// Snapshot captures the persistable stock ledger.
func (v *VendorInstance) Snapshot() *VendorState {
	state := &VendorState{Stock: make(map[string]int, len(v.slots))}
	for _, slot := range v.slots {
		state.Stock[slot.DisplayName] = slot.Stock
	}
	return state
}

func (v *VendorInstance) goodNames() []string {
	names := make([]string, len(v.slots))
	for i, s := range v.slots {
		names[i] = s.DisplayName
	}
	return names
}

func (v *VendorInstance) data() PhraseData {
	return PhraseData{
		Vendor:   v.spec.Name,
		Currency: v.spec.Currency.String(),
	}
}

// Hear runs one speech event through the vendor: classify, then query or
// advance the transaction session. It returns the vendor's replies; an
// empty slice means the vendor stays silent.
func (v *VendorInstance) Hear(charId string, char *world.Character, text string) []Reply {
	cmd := economy.Interpret(text, v.goodNames())

	switch cmd.Kind {
	case economy.QueryStock:
		return v.listStock()

	case economy.QueryPrices:
		return v.listPrices()

	case economy.StartBuy:
		return v.beginTrade(economy.RoleBuy, charId, char, cmd)

	case economy.StartSell:
		return v.beginTrade(economy.RoleSell, charId, char, cmd)

	case economy.SupplyQuantity:
		return v.supplyQuantity(charId, char, cmd.Quantity)

	default:
		// Unparsed speech from a player mid-trade means they still owe
		// us a number. The expiry counter keeps running.
		if v.awaiting(charId) {
			return []Reply{{Text: v.phrases.render("ask_again", v.data())}}
		}
		return nil
	}
}

func (v *VendorInstance) awaiting(charId string) bool {
	if _, _, ok := v.session.Pending(economy.RoleBuy, charId); ok {
		return true
	}
	_, _, ok := v.session.Pending(economy.RoleSell, charId)
	return ok
}

func (v *VendorInstance) listStock() []Reply {
	if v.spec.ExchangeOnly {
		return []Reply{{Text: v.phrases.render("exchange_only", v.data())}}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s says: Here's what I have:", v.spec.Name)
	for _, slot := range v.slots {
		fmt.Fprintf(&b, "\n  %s - %d in stock (sold by the %s)", capitalize(slot.DisplayName), slot.Stock, slot.Unit)
	}
	return []Reply{{Text: b.String()}}
}

func (v *VendorInstance) listPrices() []Reply {
	if v.spec.ExchangeOnly {
		return []Reply{{Text: v.phrases.render("exchange_only", v.data())}}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s says: Today's prices:", v.spec.Name)
	for _, slot := range v.slots {
		fmt.Fprintf(&b, "\n  %s - %d %s coin per %s", capitalize(slot.DisplayName), slot.UnitPrice(v.pricing), v.spec.Currency, slot.Unit)
	}
	return []Reply{{Text: b.String()}}
}

// UnitPrice derives the current unit price from stock; it is recomputed on
// every quote so it can never go stale.
func (s *GoodSlot) UnitPrice(p *economy.Pricing) int {
	return p.Quote(s.RateMultiplier, s.Stock)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (v *VendorInstance) beginTrade(role economy.Role, charId string, char *world.Character, cmd economy.Command) []Reply {
	if v.spec.ExchangeOnly {
		return []Reply{{Text: v.phrases.render("exchange_only", v.data())}}
	}

	data := v.data()
	data.Player = char.Name
	data.Good = cmd.Good
	data.Role = role.String()

	// The kind check comes before everything else: wrong coin is refused
	// regardless of price or stock.
	if char.Kind() != v.spec.Currency {
		return []Reply{{Text: v.phrases.render("wrong_kind", data)}}
	}

	slot := v.slots[cmd.Slot]
	if role == economy.RoleBuy && slot.Stock <= 0 {
		return []Reply{{Text: v.phrases.render("out_of_stock", data)}}
	}

	if err := v.session.Begin(role, charId, char.Name, cmd.Good, cmd.Slot); err != nil {
		busy, ok := err.(*economy.BusyError)
		if !ok {
			return nil
		}
		data.Occupant = busy.Occupant
		return []Reply{{Text: v.phrases.render("busy", data)}}
	}

	return []Reply{{Text: v.phrases.render("ask_quantity", data)}}
}

func (v *VendorInstance) supplyQuantity(charId string, char *world.Character, qty int) []Reply {
	role := economy.RoleBuy
	good, slotIdx, ok := v.session.Pending(role, charId)
	if !ok {
		role = economy.RoleSell
		good, slotIdx, ok = v.session.Pending(role, charId)
	}
	if !ok {
		// Numbers from bystanders resolve nothing and disturb nothing.
		return nil
	}

	data := v.data()
	data.Player = char.Name
	data.Good = good
	data.Role = role.String()
	data.Quantity = qty

	if qty < 1 {
		return []Reply{{Text: v.phrases.render("ask_again", data)}}
	}

	slot := v.slots[slotIdx]
	if role == economy.RoleBuy {
		return v.settleBuy(char, slot, qty, data)
	}
	return v.settleSell(char, slot, qty, data)
}

func (v *VendorInstance) settleBuy(char *world.Character, slot *GoodSlot, qty int, data PhraseData) []Reply {
	total, newStock, err := v.pricing.Cost(slot.RateMultiplier, slot.Stock, qty, economy.DirectionBuy)
	if err != nil {
		// Not enough stock: the buyer keeps the session and may retry
		// with a smaller amount.
		data.Stock = slot.Stock
		return []Reply{{Text: v.phrases.render("short_stock", data)}}
	}

	data.Price = total
	if !v.ledger.Withdraw(char, total, v.spec.Currency) {
		// Not enough coin: no point holding the role open.
		v.session.Release(economy.RoleBuy)
		return []Reply{{Text: v.phrases.render("short_funds", data)}}
	}

	slot.Stock = newStock
	v.dirty = true
	for i := 0; i < qty; i++ {
		char.Inventory.Add(v.factory.Mint(slot.GoodId))
	}
	v.session.Release(economy.RoleBuy)

	return []Reply{
		{Text: v.phrases.render("bought", data)},
		{ToRoom: true, Text: fmt.Sprintf("%s buys %d %s from %s.", char.Name, qty, data.Good, v.spec.Name)},
	}
}

func (v *VendorInstance) settleSell(char *world.Character, slot *GoodSlot, qty int, data PhraseData) []Reply {
	held := 0
	for _, gi := range char.Inventory.Items {
		if v.factory.Matches(gi, slot.GoodId) {
			held++
		}
	}
	if held < qty {
		v.session.Release(economy.RoleSell)
		return []Reply{{Text: v.phrases.render("short_goods", data)}}
	}

	total, newStock, err := v.pricing.Cost(slot.RateMultiplier, slot.Stock, qty, economy.DirectionSell)
	if err != nil {
		v.session.Release(economy.RoleSell)
		return nil
	}

	data.Price = total
	if !v.ledger.Deposit(char, total, v.spec.Currency) {
		v.session.Release(economy.RoleSell)
		return []Reply{{Text: v.phrases.render("wrong_kind", data)}}
	}

	char.Inventory.RemoveKind(slot.GoodId, qty)
	slot.Stock = newStock
	v.dirty = true
	v.session.Release(economy.RoleSell)

	return []Reply{
		{Text: v.phrases.render("sold", data)},
		{ToRoom: true, Text: fmt.Sprintf("%s sells %d %s to %s.", char.Name, qty, data.Good, v.spec.Name)},
	}
}

// Tick advances the session expiry counters and, every decay interval,
// sweeps stock decay across the good slots.
func (v *VendorInstance) Tick() []Reply {
	var replies []Reply

	for range v.session.Tick() {
		replies = append(replies, Reply{ToRoom: true, Text: v.phrases.render("timeout", v.data())})
	}

	v.decayTicks++
	if v.decayTicks >= v.decay.Interval {
		v.decayTicks = 0
		v.sweepDecay()
	}

	return replies
}

// sweepDecay randomly consumes a little stock per slot, simulating
// spoilage and off-screen customers. Stock never drops below the floor.
func (v *VendorInstance) sweepDecay() {
	for _, slot := range v.slots {
		if slot.Stock <= v.decay.Floor {
			continue
		}
		if v.rng.Float64() >= v.decay.Chance {
			continue
		}

		loss := 1 + v.rng.Intn(v.decay.MaxLoss)
		slot.Stock -= loss
		if slot.Stock < v.decay.Floor {
			slot.Stock = v.decay.Floor
		}
		v.dirty = true
	}
}
