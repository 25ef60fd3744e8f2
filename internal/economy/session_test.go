package economy

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSessionBegin(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	good, slot, ok := s.Pending(RoleBuy, "alice")
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "good", good, "bread")
	testutil.AssertEqual(t, "slot", slot, 0)
}

func TestSessionRolesAreExclusive(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.Begin(RoleBuy, "bob", "Bob", "bread", 0)
	busy, ok := err.(*BusyError)
	if !ok {
		t.Fatalf("expected BusyError, got %v", err)
	}
	testutil.AssertEqual(t, "occupant", busy.Occupant, "Alice")
	testutil.AssertEqual(t, "role", busy.Role, RoleBuy)

	// Alice's pending trade survives the rejected attempt.
	good, _, ok := s.Pending(RoleBuy, "alice")
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "good", good, "bread")
}

func TestSessionRolesAreIndependent(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Begin(RoleSell, "bob", "Bob", "fish", 1); err != nil {
		t.Fatalf("expected sell role to be free: %v", err)
	}

	testutil.AssertEqual(t, "buy occupied", s.Occupied(RoleBuy), true)
	testutil.AssertEqual(t, "sell occupied", s.Occupied(RoleSell), true)
}

func TestSessionSamePlayerRebinds(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Begin(RoleBuy, "alice", "Alice", "fish", 1); err != nil {
		t.Fatalf("expected rebind to succeed: %v", err)
	}

	good, slot, ok := s.Pending(RoleBuy, "alice")
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "good", good, "fish")
	testutil.AssertEqual(t, "slot", slot, 1)
}

func TestSessionPendingOtherPlayer(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, ok := s.Pending(RoleBuy, "bob")
	testutil.AssertEqual(t, "ok", ok, false)
}

func TestSessionRelease(t *testing.T) {
	s := NewSession(5)

	if err := s.Begin(RoleSell, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Release(RoleSell)

	testutil.AssertEqual(t, "occupied", s.Occupied(RoleSell), false)
	if err := s.Begin(RoleSell, "bob", "Bob", "fish", 1); err != nil {
		t.Fatalf("expected released role to be free: %v", err)
	}
}

func TestSessionTickExpiry(t *testing.T) {
	s := NewSession(2)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First tick arms the counter, the next two count it down.
	testutil.AssertEqual(t, "arming tick", len(s.Tick()), 0)
	testutil.AssertEqual(t, "counting tick", len(s.Tick()), 0)

	expired := s.Tick()
	testutil.AssertEqual(t, "expired count", len(expired), 1)
	testutil.AssertEqual(t, "expired role", expired[0], RoleBuy)
	testutil.AssertEqual(t, "occupied", s.Occupied(RoleBuy), false)
}

func TestSessionRebindRestartsExpiry(t *testing.T) {
	s := NewSession(1)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "arming tick", len(s.Tick()), 0)

	// Re-engaging before expiry starts the clock over.
	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "rearming tick", len(s.Tick()), 0)
	testutil.AssertEqual(t, "expired count", len(s.Tick()), 1)
}

func TestSessionTickIdle(t *testing.T) {
	s := NewSession(1)
	for i := 0; i < 3; i++ {
		testutil.AssertEqual(t, "idle tick", len(s.Tick()), 0)
	}
}

func TestSessionBothRolesExpireTogether(t *testing.T) {
	s := NewSession(1)

	if err := s.Begin(RoleBuy, "alice", "Alice", "bread", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Begin(RoleSell, "bob", "Bob", "fish", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "arming tick", len(s.Tick()), 0)
	expired := s.Tick()
	testutil.AssertEqual(t, "expired count", len(expired), 2)
}
