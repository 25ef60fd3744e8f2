package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
	"github.com/pixil98/go-log"
	"github.com/sirupsen/logrus"
)

// TelnetListener serves trading sessions over bare telnet, the lingua
// franca of MUD clients.
type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	// Sessions get their own context so a server stop can cut mid-trade
	// connections loose after the accept loop has closed.
	sessionCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	handler := &telnetSessions{
		ctx:    sessionCtx,
		logger: log.GetLogger(ctx),
		accept: l.cm.AcceptConnection,
	}

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), handler)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			cancelSessions()
			handler.wait()
		case <-stopped:
		}
	}()

	log.GetLogger(ctx).Infof("telnet trading floor open on port %d", l.port)

	err := svr.ListenAndServe()
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}

	return nil
}

// telnetSessions tracks live connections so shutdown can wait for them.
type telnetSessions struct {
	ctx    context.Context
	logger logrus.FieldLogger
	accept func(context.Context, io.ReadWriter)

	wg sync.WaitGroup
}

func (h *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()

	h.logger.Info("trader connected over telnet")
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Warnf("closing telnet connection: %s", err)
		}
		h.logger.Info("trader left")
	}()

	h.accept(log.SetLogger(h.ctx, h.logger), conn)
}

func (h *telnetSessions) wait() {
	h.wg.Wait()
}
