package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/pixil98/go-bazaar/internal/messaging"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-log"
)

// Publisher delivers vendor replies to NATS subjects.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Manager owns every vendor instance, routes player speech to the vendors
// that can hear it, and drives session expiry, stock decay, and stock
// persistence from the world tick. It is the per-vendor critical section:
// all vendor mutation happens under its lock.
type Manager struct {
	mu sync.Mutex

	vendors map[storage.Identifier]*VendorInstance
	byRoom  map[storage.Identifier][]*VendorInstance

	state  *world.State
	states storage.Storer[*VendorState]
	pub    Publisher
}

func NewManager(specs storage.Storer[*VendorSpec], states storage.Storer[*VendorState], ws *world.State, pub Publisher, build func(id storage.Identifier, spec *VendorSpec) (*VendorInstance, error)) (*Manager, error) {
	m := &Manager{
		vendors: make(map[storage.Identifier]*VendorInstance),
		byRoom:  make(map[storage.Identifier][]*VendorInstance),
		state:   ws,
		states:  states,
		pub:     pub,
	}

	for id, spec := range specs.GetAll() {
		vi, err := build(storage.Identifier(id), spec)
		if err != nil {
			return nil, fmt.Errorf("building vendor %s: %w", id, err)
		}
		vi.RestoreStock(states.Get(id))

		m.vendors[vi.Id()] = vi
		m.byRoom[vi.Room()] = append(m.byRoom[vi.Room()], vi)
	}

	return m, nil
}

// HandleSpeech feeds one utterance to every vendor in the speaker's room
// and publishes whatever they say back. Speech outside any vendor's room
// is nobody's business.
func (m *Manager) HandleSpeech(ctx context.Context, charId string, room storage.Identifier, text string) {
	ps := m.state.GetPlayer(charId)
	if ps == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, vi := range m.byRoom[room] {
		replies := vi.Hear(charId, ps.Char, text)
		m.deliver(ctx, vi, charId, replies)
		m.persist(ctx, vi)
	}
}

// VendorsIn lists the display names of the vendors trading in a room.
func (m *Manager) VendorsIn(room storage.Identifier) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for _, vi := range m.byRoom[room] {
		names = append(names, vi.Name())
	}
	return names
}

// Tick advances every vendor's expiry counters and decay schedule.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, vi := range m.vendors {
		replies := vi.Tick()
		m.deliver(ctx, vi, "", replies)
		m.persist(ctx, vi)
	}
	return nil
}

func (m *Manager) deliver(ctx context.Context, vi *VendorInstance, charId string, replies []Reply) {
	logger := log.GetLogger(ctx)

	for _, r := range replies {
		if r.Text == "" {
			continue
		}

		subject := messaging.RoomSubject(vi.Room())
		if !r.ToRoom {
			if charId == "" {
				continue
			}
			subject = messaging.PlayerSubject(charId)
		}

		if err := m.pub.Publish(subject, []byte(r.Text)); err != nil {
			logger.WithError(err).Warnf("publishing vendor reply for %s", vi.Id())
		}
	}
}

func (m *Manager) persist(ctx context.Context, vi *VendorInstance) {
	if !vi.Dirty() {
		return
	}

	if err := m.states.Save(vi.Id().String(), vi.Snapshot()); err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("saving vendor state for %s", vi.Id())
		return
	}
	vi.ClearDirty()
}
