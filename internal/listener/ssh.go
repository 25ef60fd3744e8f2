package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener serves trading sessions over ssh for players whose networks
// filter plain telnet. The bazaar runs its own login flow, so the ssh
// layer accepts every client unauthenticated.
type SshListener struct {
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		port:    port,
		cm:      cm,
		hostKey: hostKey,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(l.hostKey)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "ssh trading floor open", "port", l.port)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	sessionCtx, cancelSessions := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				// Shutting down: stop taking traders and wait out the
				// ones still mid-session.
				cancelSessions()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.serve(sessionCtx, conn, config)
		}()
	}
}

func (l *SshListener) serve(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		slog.ErrorContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	slog.InfoContext(ctx, "trader connected over ssh", "remote", conn.RemoteAddr())
	defer slog.InfoContext(ctx, "trader left", "remote", conn.RemoteAddr())

	// Cancellation has to close the connection to unblock the channel
	// loop below.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "only sessions are served here")
			continue
		}
		l.serveSession(ctx, newChan)
	}
}

func (l *SshListener) serveSession(ctx context.Context, newChan ssh.NewChannel) {
	ch, requests, err := newChan.Accept()
	if err != nil {
		slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
		return
	}
	defer ch.Close()

	// The client won't forward keystrokes until its shell request is
	// answered. PTY requests are refused so the client keeps local echo
	// and line buffering, which the prompt flow depends on.
	shellReady := make(chan struct{})
	go func() {
		for req := range requests {
			switch req.Type {
			case "shell":
				req.Reply(true, nil)
				close(shellReady)
			default:
				req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
	case <-ctx.Done():
		return
	}

	l.cm.AcceptConnection(ctx, ch)
}
