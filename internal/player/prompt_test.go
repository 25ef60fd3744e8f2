package player

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-testutil"
)

type scriptedConn struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newScriptedConn(input string) *scriptedConn {
	return &scriptedConn{in: strings.NewReader(input)}
}

func (c *scriptedConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *scriptedConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func TestPrompt(t *testing.T) {
	conn := newScriptedConn("  Alice  \n")

	got, err := Prompt(conn, "What is your name? ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "answer", got, "Alice")
	testutil.AssertEqual(t, "question asked", strings.Contains(conn.out.String(), "What is your name? "), true)
}

func TestPromptRetriesUntilValid(t *testing.T) {
	conn := newScriptedConn("xx\nxxx\n")

	got, err := Prompt(conn, "Name? ", WithValidator(
		func(str string) (bool, string) {
			if len(str) < 3 {
				return false, "Too short.\n"
			}
			return true, ""
		},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "answer", got, "xxx")
	testutil.AssertEqual(t, "rejection shown", strings.Contains(conn.out.String(), "Too short."), true)
}

func TestPromptMaxTries(t *testing.T) {
	conn := newScriptedConn("bad\nbad\nbad\ngood\n")

	_, err := Prompt(conn, "Password: ", WithValidator(
		func(str string) (bool, string) {
			return str == "good", "Wrong.\n"
		},
	), WithMaxTries(3))
	testutil.AssertErrorContains(t, err, "too many tries")
}

func TestPromptYN(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   bool
	}{
		"yes":           {input: "yes\n", exp: true},
		"y":             {input: "y\n", exp: true},
		"uppercase yes": {input: "YES\n", exp: true},
		"no":            {input: "no\n", exp: false},
		"n":             {input: "n\n", exp: false},
		"gibberish then no": {input: "maybe\nno\n", exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := PromptYN(newScriptedConn(tt.input), "Create them? ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "answer", got, tt.exp)
		})
	}
}

func TestSelectorPrompt(t *testing.T) {
	races := map[string]*world.Race{
		"dwarven": {Name: "Dwarf", Currency: economy.KindDwarven},
		"common":  {Name: "Human", Currency: economy.KindCommon},
		"elven":   {Name: "Elf", Currency: economy.KindElven},
	}

	// Ids sort as common, dwarven, elven; picking 2 lands on dwarven.
	conn := newScriptedConn("2\n")
	got, err := NewSelector(races).Prompt(conn, "Choose your race:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "selection", got, "dwarven")

	shown := conn.out.String()
	for _, line := range []string{" 1. Human", " 2. Dwarf", " 3. Elf"} {
		if !strings.Contains(shown, line) {
			t.Fatalf("expected list to contain %q, got %q", line, shown)
		}
	}
}

func TestSelectorPromptRejectsOutOfRange(t *testing.T) {
	races := map[string]*world.Race{
		"common": {Name: "Human", Currency: economy.KindCommon},
	}

	conn := newScriptedConn("7\n1\n")
	got, err := NewSelector(races).Prompt(conn, "Choose your race:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "selection", got, "common")
	testutil.AssertEqual(t, "rejection shown", strings.Contains(conn.out.String(), "Pick a number"), true)
}
