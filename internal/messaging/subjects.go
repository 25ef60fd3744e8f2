package messaging

import (
	"fmt"

	"github.com/pixil98/go-bazaar/internal/storage"
)

// Subject naming is the contract between speakers and listeners: player
// sessions subscribe to their own subject plus their room's, and vendors
// publish to the same.

func RoomSubject(room storage.Identifier) string {
	return fmt.Sprintf("room-%s", room)
}

func PlayerSubject(charId string) string {
	return fmt.Sprintf("player-%s", charId)
}
