package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-bazaar/internal/market"
	"github.com/pixil98/go-bazaar/internal/messaging"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
)

// Broker is the slice of the NATS server sessions need: publish lines,
// subscribe to their own and their room's subjects.
type Broker interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Market is how speech reaches the vendors.
type Market interface {
	HandleSpeech(ctx context.Context, charId string, room storage.Identifier, text string)
	VendorsIn(room storage.Identifier) []string
}

// Manager owns player sessions: login, the per-connection loop, and
// character persistence on the way out.
type Manager struct {
	chars storage.Storer[*world.Character]
	goods storage.Storer[*market.Good]
	state *world.State

	market Market
	broker Broker

	defaultRoom storage.Identifier
	login       *loginFlow
}

func NewManager(chars storage.Storer[*world.Character], races storage.Storer[*world.Race], goods storage.Storer[*market.Good], state *world.State, mkt Market, broker Broker, defaultRoom storage.Identifier) *Manager {
	return &Manager{
		chars:       chars,
		goods:       goods,
		state:       state,
		market:      mkt,
		broker:      broker,
		defaultRoom: defaultRoom,
		login:       &loginFlow{chars: chars, races: races},
	}
}

// RunSession walks a connection through login and runs the trade loop
// until quit, disconnect, or shutdown.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	char, charId, err := m.login.Run(conn)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	room := char.LastRoom
	if room == "" {
		room = m.defaultRoom
	}

	ps, err := m.state.AddPlayer(charId, char, room)
	if err != nil {
		if errors.Is(err, world.ErrPlayerExists) {
			_, _ = conn.Write([]byte("That character is already logged in.\n"))
			return nil
		}
		return err
	}
	defer func() {
		if err := m.state.RemovePlayer(charId); err != nil {
			slog.Warn("removing player", "charId", charId, "error", err)
		}
		char.LastRoom = room
		if err := m.chars.Save(charId, char); err != nil {
			slog.Warn("saving character", "charId", charId, "error", err)
		}
	}()

	msgs := make(chan []byte, 16)
	deliver := func(data []byte) {
		select {
		case msgs <- data:
		default:
			// A wedged client shouldn't stall the broker; drop the line.
		}
	}

	unsubPlayer, err := m.broker.Subscribe(messaging.PlayerSubject(charId), deliver)
	if err != nil {
		return fmt.Errorf("subscribing player subject: %w", err)
	}
	defer unsubPlayer()

	unsubRoom, err := m.broker.Subscribe(messaging.RoomSubject(room), deliver)
	if err != nil {
		return fmt.Errorf("subscribing room subject: %w", err)
	}
	defer unsubRoom()

	s := &session{
		conn:    conn,
		charId:  charId,
		ps:      ps,
		manager: m,
	}
	return s.run(ctx, msgs)
}

// say delivers a speech line to everyone in the room except the speaker,
// who already saw what they typed.
func (m *Manager) say(room storage.Identifier, fromId string, text string) {
	for _, p := range m.state.InRoom(room) {
		if p.CharId == fromId {
			continue
		}
		if err := m.broker.Publish(messaging.PlayerSubject(p.CharId), []byte(text)); err != nil {
			slog.Warn("publishing say", "charId", p.CharId, "error", err)
		}
	}
}
