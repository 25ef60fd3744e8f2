package economy

import "fmt"

// Role is one half of a vendor's transaction session. The buy side and the
// sell side are independent state machines; two different players may hold
// them at the same time.
type Role int

const (
	RoleBuy Role = iota
	RoleSell
)

func (r Role) String() string {
	if r == RoleBuy {
		return "buy"
	}
	return "sell"
}

// BusyError reports that a role is already held by another player.
// Occupant is the holder's display name, ready to be spoken aloud.
type BusyError struct {
	Role     Role
	Occupant string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("%s role is held by %s", e.Role, e.Occupant)
}

// roleState is one occupied role: who started it, which good it targets,
// and how many ticks remain before the vendor gives up on them.
type roleState struct {
	player string
	name   string
	good   string
	slot   int

	// armed becomes true on the first tick after occupation; the counter
	// only counts down on subsequent ticks.
	armed bool
	ticks int
}

// Session tracks at most one pending buy and one pending sell. It is not
// safe for concurrent use; the owning vendor serializes access.
type Session struct {
	expiry int
	roles  [2]*roleState
}

// NewSession creates an idle session whose occupied roles expire after
// expiry ticks without resolution.
func NewSession(expiry int) *Session {
	return &Session{expiry: expiry}
}

// Begin occupies a role for a player and good. A different player holding
// the role is a BusyError and leaves the state untouched. The same player
// beginning again rebinds the good and restarts the expiry counter.
func (s *Session) Begin(role Role, player, name, good string, slot int) error {
	if st := s.roles[role]; st != nil && st.player != player {
		return &BusyError{Role: role, Occupant: st.name}
	}

	s.roles[role] = &roleState{
		player: player,
		name:   name,
		good:   good,
		slot:   slot,
	}
	return nil
}

// Pending reports the good a player is mid-trade on, or ok=false if the
// role is idle or held by someone else.
func (s *Session) Pending(role Role, player string) (string, int, bool) {
	st := s.roles[role]
	if st == nil || st.player != player {
		return "", 0, false
	}
	return st.good, st.slot, true
}

// Occupied reports whether a role is held by anyone.
func (s *Session) Occupied(role Role) bool {
	return s.roles[role] != nil
}

// Release returns a role to idle.
func (s *Session) Release(role Role) {
	s.roles[role] = nil
}

// Tick advances the expiry counters and returns the roles that timed out
// this tick. A freshly occupied role is armed on its first tick and only
// starts counting down afterwards, so the granularity of the timeout is
// the host's tick period.
func (s *Session) Tick() []Role {
	var expired []Role
	for i, st := range s.roles {
		if st == nil {
			continue
		}
		if !st.armed {
			st.armed = true
			st.ticks = s.expiry
			continue
		}
		st.ticks--
		if st.ticks <= 0 {
			s.roles[i] = nil
			expired = append(expired, Role(i))
		}
	}
	return expired
}
