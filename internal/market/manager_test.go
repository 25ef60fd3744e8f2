package market

import (
	"context"
	"strings"
	"testing"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-testutil"
)

type mockStore[T storage.ValidatingSpec] struct {
	records map[string]T
	saved   map[string]T
}

func newMockStore[T storage.ValidatingSpec](records map[string]T) *mockStore[T] {
	return &mockStore[T]{
		records: records,
		saved:   map[string]T{},
	}
}

func (s *mockStore[T]) Save(id string, o T) error {
	s.records[id] = o
	s.saved[id] = o
	return nil
}

func (s *mockStore[T]) Get(id string) T {
	return s.records[id]
}

func (s *mockStore[T]) GetAll() map[string]T {
	return s.records
}

type mockPublisher struct {
	published map[string][]string
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: map[string][]string{}}
}

func (p *mockPublisher) Publish(subject string, data []byte) error {
	p.published[subject] = append(p.published[subject], string(data))
	return nil
}

func (p *mockPublisher) heard(subject, substr string) bool {
	for _, msg := range p.published[subject] {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func testManager(t *testing.T) (*Manager, *mockPublisher, *mockStore[*VendorState], *world.Character) {
	t.Helper()

	specs := newMockStore(map[string]*VendorSpec{"hilda": testVendorSpec()})
	states := newMockStore(map[string]*VendorState{})
	pub := newMockPublisher()

	ws := world.NewState()
	alice := testShopper("Alice", economy.KindCommon, 500)
	if _, err := ws.AddPlayer("alice", alice, "market"); err != nil {
		t.Fatalf("adding player: %v", err)
	}

	pricing := economy.NewPricing(economy.DefaultTuning())
	ledger := world.NewPurse(10000)
	m, err := NewManager(specs, states, ws, pub, func(id storage.Identifier, spec *VendorSpec) (*VendorInstance, error) {
		return NewVendorInstance(id, spec, pricing, ledger, &MintFactory{}, 30, DefaultDecayTuning())
	})
	if err != nil {
		t.Fatalf("building manager: %v", err)
	}

	return m, pub, states, alice
}

func TestManagerHandleSpeech(t *testing.T) {
	m, pub, states, alice := testManager(t)
	ctx := context.Background()

	m.HandleSpeech(ctx, "alice", "market", "i'd like to buy bread")
	if !pub.heard("player-alice", "How many bread") {
		t.Fatalf("expected quantity prompt, got %v", pub.published)
	}

	m.HandleSpeech(ctx, "alice", "market", "5")
	if !pub.heard("player-alice", "Pleasure doing business") {
		t.Fatalf("expected settlement reply, got %v", pub.published)
	}
	if !pub.heard("room-market", "Alice buys 5 bread") {
		t.Fatalf("expected room announcement, got %v", pub.published)
	}

	testutil.AssertEqual(t, "purse", alice.Purse, 500-287)

	// Settlement changed stock, so the ledger got persisted.
	saved := states.saved["hilda"]
	if saved == nil {
		t.Fatal("expected vendor state to be saved")
	}
	testutil.AssertEqual(t, "saved stock", saved.Stock["bread"], 45)
}

func TestManagerSpeechOutsideVendorRoom(t *testing.T) {
	m, pub, _, _ := testManager(t)

	m.HandleSpeech(context.Background(), "alice", "docks", "buy bread")
	testutil.AssertEqual(t, "published", len(pub.published), 0)
}

func TestManagerSpeechFromOfflinePlayer(t *testing.T) {
	m, pub, _, _ := testManager(t)

	m.HandleSpeech(context.Background(), "ghost", "market", "buy bread")
	testutil.AssertEqual(t, "published", len(pub.published), 0)
}

func TestManagerRestoresPersistedStock(t *testing.T) {
	specs := newMockStore(map[string]*VendorSpec{"hilda": testVendorSpec()})
	states := newMockStore(map[string]*VendorState{
		"hilda": {Stock: map[string]int{"bread": 7}},
	})

	pricing := economy.NewPricing(economy.DefaultTuning())
	m, err := NewManager(specs, states, world.NewState(), newMockPublisher(), func(id storage.Identifier, spec *VendorSpec) (*VendorInstance, error) {
		return NewVendorInstance(id, spec, pricing, world.NewPurse(0), &MintFactory{}, 30, DefaultDecayTuning())
	})
	if err != nil {
		t.Fatalf("building manager: %v", err)
	}

	vi := m.vendors["hilda"]
	testutil.AssertEqual(t, "restored bread", vi.slots[0].Stock, 7)
	testutil.AssertEqual(t, "fish untouched", vi.slots[1].Stock, 20)
}

func TestManagerTickBroadcastsTimeouts(t *testing.T) {
	specs := newMockStore(map[string]*VendorSpec{"hilda": testVendorSpec()})
	states := newMockStore(map[string]*VendorState{})
	pub := newMockPublisher()

	ws := world.NewState()
	alice := testShopper("Alice", economy.KindCommon, 500)
	if _, err := ws.AddPlayer("alice", alice, "market"); err != nil {
		t.Fatalf("adding player: %v", err)
	}

	pricing := economy.NewPricing(economy.DefaultTuning())
	m, err := NewManager(specs, states, ws, pub, func(id storage.Identifier, spec *VendorSpec) (*VendorInstance, error) {
		return NewVendorInstance(id, spec, pricing, world.NewPurse(0), &MintFactory{}, 1, DefaultDecayTuning())
	})
	if err != nil {
		t.Fatalf("building manager: %v", err)
	}

	ctx := context.Background()
	m.HandleSpeech(ctx, "alice", "market", "buy bread")

	if err := m.Tick(ctx); err != nil {
		t.Fatalf("arming tick: %v", err)
	}
	if err := m.Tick(ctx); err != nil {
		t.Fatalf("expiring tick: %v", err)
	}

	if !pub.heard("room-market", "back to business") {
		t.Fatalf("expected timeout broadcast, got %v", pub.published)
	}
}

func TestManagerVendorsIn(t *testing.T) {
	m, _, _, _ := testManager(t)

	names := m.VendorsIn("market")
	testutil.AssertEqual(t, "count", len(names), 1)
	testutil.AssertEqual(t, "name", names[0], "Hilda")
	testutil.AssertEqual(t, "empty room", len(m.VendorsIn("docks")), 0)
}
