package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
)

var (
	// ErrClientClosed is returned by Send after the client was closed.
	ErrClientClosed = errors.New("client closed")
	// ErrSendQueueFull is returned when a slow client cannot keep up.
	ErrSendQueueFull = errors.New("send queue full")
)

// GameClient is one logged-in connection.
//
// Send must only be called from the world tick goroutine: messages are
// encoded with the session's outbound cipher in the order they are queued.
type GameClient struct {
	conn    net.Conn
	ip      string
	session *login.Session
	player  *model.Player

	// Per-client write queue. A nil entry asks the pump to flush and close.
	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
	closed    bool // tick goroutine only

	writeTimeout time.Duration
}

// NewGameClient wraps an authorized connection.
func NewGameClient(conn net.Conn, session *login.Session, player *model.Player, sendQueueSize int, writeTimeout time.Duration) *GameClient {
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &GameClient{
		conn:         conn,
		ip:           session.Addr,
		session:      session,
		player:       player,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// IP returns the client's remote IP address.
func (c *GameClient) IP() string {
	return c.ip
}

// Session returns the login session.
func (c *GameClient) Session() *login.Session {
	return c.session
}

// Player returns the client's character.
func (c *GameClient) Player() *model.Player {
	return c.player
}

// Revision returns the protocol revision the client speaks.
func (c *GameClient) Revision() *protocol.Revision {
	return c.session.Revision
}

// Send builds p, encodes it with the session cipher and queues it.
// Non-blocking: a full queue closes the client.
func (c *GameClient) Send(p serverpackets.Packet) error {
	if c.closed {
		return ErrClientClosed
	}
	m, err := p.Build(c.session.Revision)
	if err != nil {
		return fmt.Errorf("building %T: %w", p, err)
	}
	var ks protocol.Keystream
	if c.session.Encoder != nil {
		ks = c.session.Encoder
	}
	data, err := m.Compile(ks)
	if err != nil {
		return fmt.Errorf("compiling %T: %w", p, err)
	}
	return c.enqueue(data)
}

func (c *GameClient) enqueue(data []byte) error {
	select {
	case c.sendCh <- data:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "client", c.ip)
		c.closed = true
		c.CloseAsync()
		return ErrSendQueueFull
	}
}

// CloseAfterFlush closes the connection once everything queued so far has
// been written. Later sends fail.
func (c *GameClient) CloseAfterFlush() {
	if c.closed {
		return
	}
	c.closed = true
	select {
	case c.sendCh <- nil:
	default:
		c.CloseAsync()
	}
}

// writePump is a dedicated writer goroutine for this client.
// Queued messages are drained in batches and written with net.Buffers.
// The connection is closed when the pump stops.
func (c *GameClient) writePump() {
	defer func() { _ = c.conn.Close() }()

	bufs := make(net.Buffers, 0, 64)
	for {
		select {
		case data := <-c.sendCh:
			batch, last := c.drain(bufs[:0], data)
			if err := c.flush(batch); err != nil {
				slog.Warn("write failed", "client", c.ip, "error", err)
				return
			}
			if last {
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// drain appends every message already queued behind first. It stops at the
// close marker and reports whether it saw one.
func (c *GameClient) drain(bufs net.Buffers, first []byte) (net.Buffers, bool) {
	if first == nil {
		return bufs, true
	}
	bufs = append(bufs, first)
	for range len(c.sendCh) {
		data := <-c.sendCh
		if data == nil {
			return bufs, true
		}
		bufs = append(bufs, data)
	}
	return bufs, false
}

func (c *GameClient) flush(bufs net.Buffers) error {
	if len(bufs) == 0 {
		return nil
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if len(bufs) == 1 {
		_, err := c.conn.Write(bufs[0])
		return err
	}
	_, err := bufs.WriteTo(c.conn)
	return err
}

// CloseAsync signals the writePump to stop without blocking.
// Safe to call multiple times.
func (c *GameClient) CloseAsync() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
}

// Close stops the writePump and closes the connection.
func (c *GameClient) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}
