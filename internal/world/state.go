package world

import (
	"errors"
	"sync"

	"github.com/pixil98/go-bazaar/internal/storage"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")
)

// PlayerState is an online character and where they are standing.
type PlayerState struct {
	CharId string
	Char   *Character
	Room   storage.Identifier
}

// State is the roster of online players. All access goes through its
// methods to keep it safe across listener goroutines.
type State struct {
	mu      sync.RWMutex
	players map[string]*PlayerState
}

func NewState() *State {
	return &State{
		players: make(map[string]*PlayerState),
	}
}

// AddPlayer registers a character as online in the given room.
func (s *State) AddPlayer(charId string, char *Character, room storage.Identifier) (*PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[charId]; exists {
		return nil, ErrPlayerExists
	}

	ps := &PlayerState{
		CharId: charId,
		Char:   char,
		Room:   room,
	}
	s.players[charId] = ps
	return ps, nil
}

// RemovePlayer takes a character offline.
func (s *State) RemovePlayer(charId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[charId]; !exists {
		return ErrPlayerNotFound
	}
	delete(s.players, charId)
	return nil
}

// GetPlayer returns the player state, or nil if offline.
func (s *State) GetPlayer(charId string) *PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.players[charId]
}

// InRoom returns the players standing in a room.
func (s *State) InRoom(room storage.Identifier) []*PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*PlayerState
	for _, ps := range s.players {
		if ps.Room == room {
			out = append(out, ps)
		}
	}
	return out
}
