package listener

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pixil98/go-bazaar/internal/player"
)

// ConnectionManager turns accepted connections into trading sessions. Both
// transports hand their streams here, so line-ending normalization lives
// here too: the session layer only ever sees \n, and clients get the \r\n
// their terminals expect.
type ConnectionManager struct {
	pm *player.Manager
}

func NewConnectionManager(pm *player.Manager) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	start := time.Now()
	err := m.pm.RunSession(ctx, &lineEndingRW{rw: conn})
	if err != nil {
		slog.WarnContext(ctx, "trading session failed", "error", err, "duration", time.Since(start))
		return
	}
	slog.InfoContext(ctx, "trading session closed", "duration", time.Since(start))
}

// lineEndingRW rewrites line endings both ways. Inbound, telnet clients
// send \r\n and ssh clients without a pty send bare \r; either becomes \n.
// Outbound, every \n becomes \r\n.
type lineEndingRW struct {
	rw io.ReadWriter
}

func (l *lineEndingRW) Read(p []byte) (int, error) {
	n, err := l.rw.Read(p)
	if n == 0 {
		return n, err
	}

	buf := p[:n]
	out := buf[:0]
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if c == '\r' {
			if i+1 < len(buf) && buf[i+1] == '\n' {
				i++
			}
			c = '\n'
		}
		out = append(out, c)
	}
	return len(out), err
}

func (l *lineEndingRW) Write(p []byte) (int, error) {
	_, err := l.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// Report the caller's length; the expansion is invisible to them.
	return len(p), err
}
