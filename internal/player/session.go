package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/pixil98/go-bazaar/internal/world"
)

// replyWidth is the column vendor replies and room chatter wrap at. Good
// lists are indented continuation lines, which wordwrap leaves alone.
const replyWidth = 80

// session is one logged-in connection: reads lines, handles the few local
// commands, and treats everything else as speech in the room.
type session struct {
	conn    io.ReadWriter
	charId  string
	ps      *world.PlayerState
	manager *Manager
}

func (s *session) run(ctx context.Context, msgs <-chan []byte) error {
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.conn)
		for scanner.Scan() {
			inputChan <- scanner.Text()
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	if err := s.welcome(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-msgs:
			if err := s.writeLine("\n" + wordwrap.String(string(msg), replyWidth)); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				// Connection lost; the deferred cleanup in RunSession
				// saves the character.
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if line == "" {
				if err := s.prompt(); err != nil {
					return err
				}
				continue
			}

			quit, err := s.handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return s.writeLine("Goodbye!")
			}

			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// handle runs one input line. Returns true when the player quits.
func (s *session) handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "quit":
		return true, nil

	case "coins":
		char := s.ps.Char
		return false, s.writeLine(fmt.Sprintf("You carry %d %s coin; %d more banked.", char.Purse, char.Kind(), char.Bank))

	case "goods":
		return false, s.writeLine(s.listGoods())

	case "help":
		return false, s.writeLine("Speak freely; traders listen for 'stock', 'price', 'buy <good>' and 'sell <good>'.\nLocal commands: coins, goods, help, quit.")
	}

	// Everything else is speech in the room.
	s.manager.say(s.ps.Room, s.charId, fmt.Sprintf("%s says: %s", s.ps.Char.Name, line))
	s.manager.market.HandleSpeech(ctx, s.charId, s.ps.Room, line)
	return false, nil
}

func (s *session) welcome() error {
	traders := s.manager.market.VendorsIn(s.ps.Room)
	msg := fmt.Sprintf("Welcome, %s.", s.ps.Char.Name)
	if len(traders) > 0 {
		msg += fmt.Sprintf(" Trading here: %s.", strings.Join(traders, ", "))
	} else {
		msg += " Nobody is trading here right now."
	}
	if err := s.writeLine(wordwrap.String(msg, replyWidth)); err != nil {
		return err
	}
	return s.prompt()
}

func (s *session) listGoods() string {
	char := s.ps.Char

	counts := map[string]int{}
	for _, gi := range char.Inventory.Items {
		counts[gi.GoodId.String()]++
	}
	if len(counts) == 0 {
		return "You aren't carrying any goods."
	}

	var b strings.Builder
	b.WriteString("You carry:")
	for id, n := range counts {
		name := id
		if g := s.manager.goods.Get(id); g != nil {
			name = g.Name
		}
		fmt.Fprintf(&b, "\n  %d %s", n, name)
	}
	return b.String()
}

func (s *session) prompt() error {
	_, err := s.conn.Write([]byte(fmt.Sprintf("[%d %s] > ", s.ps.Char.Purse, s.ps.Char.Kind())))
	return err
}

func (s *session) writeLine(msg string) error {
	_, err := s.conn.Write([]byte(msg + "\n"))
	return err
}
