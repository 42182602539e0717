package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/udisondev/rs2go/internal/config"
	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
	"github.com/udisondev/rs2go/internal/world"
)

// WelcomeText is the first chat box line after login.
const WelcomeText = "Welcome to RuneScape."

// sidebarInterfaces are the interfaces opened in each tab on login, -1 for none.
var sidebarInterfaces = [serverpackets.TabCount]int{
	serverpackets.TabAttack:    2423,
	serverpackets.TabSkills:    3917,
	serverpackets.TabQuests:    638,
	serverpackets.TabInventory: 3213,
	serverpackets.TabEquipment: 1644,
	serverpackets.TabPrayer:    5608,
	serverpackets.TabMagic:     1151,
	serverpackets.TabUnused:    -1,
	serverpackets.TabFriends:   5065,
	serverpackets.TabIgnores:   5715,
	serverpackets.TabLogout:    2449,
	serverpackets.TabSettings:  904,
	serverpackets.TabEmotes:    147,
	serverpackets.TabMusic:     962,
}

// Server accepts game client connections.
type Server struct {
	cfg        config.GameServer
	world      *world.World
	handshaker *login.Handshaker
	defs       *model.EquipmentDefinitions
	metrics    *Metrics

	clients *ClientManager
	handler *Handler
	sync    *Synchronizer

	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a new game server. metrics may be nil.
func NewServer(
	cfg config.GameServer,
	w *world.World,
	handshaker *login.Handshaker,
	profiles login.ProfileRepository,
	defs *model.EquipmentDefinitions,
	metrics *Metrics,
) *Server {
	clients := NewClientManager()
	return &Server{
		cfg:        cfg,
		world:      w,
		handshaker: handshaker,
		defs:       defs,
		metrics:    metrics,
		clients:    clients,
		handler:    NewHandler(w, clients, defs, profiles, metrics),
		sync:       NewSynchronizer(w, clients, defs),
	}
}

// Synchronizer returns the tick callbacks for this server's clients.
func (s *Server) Synchronizer() *Synchronizer {
	return s.sync
}

// ClientManager returns the client manager for this server.
func (s *Server) ClientManager() *ClientManager {
	return s.clients
}

// Addr returns the address the server is listening on.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run begins listening for game client connections.
// Creates a listener on cfg.BindAddress:cfg.Port and starts the accept loop.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.BindAddress, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled, then waits for
// the open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	slog.Info("game server started", "address", ln.Addr(), "revision", s.cfg.Revision)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				slog.Info("game server stopped")
				return nil
			}
			slog.Error("failed to accept new connection", "error", err)
			continue
		}
		s.metrics.connection()

		// Enable TCP keepalive (detect dead connections)
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		wg.Go(func() {
			s.handleConnection(ctx, conn)
		})
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	session, err := s.handshaker.Run(ctx, conn)
	if err != nil {
		s.handshakeFailed(conn, err)
		return
	}

	player := model.NewPlayer(session.Profile, s.defs, model.DefaultSpawn)
	client := NewGameClient(conn, session, player, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
	go client.writePump()
	s.world.Submit(s.enter(client))

	err = s.readLoop(ctx, client)
	switch {
	case ctx.Err() != nil, errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		slog.Info("client disconnected", "user", player.Username(), "remote", client.IP())
	default:
		slog.Error("connection error", "user", player.Username(), "remote", client.IP(), "error", err)
	}

	if ctx.Err() != nil {
		client.CloseAsync()
	}
	s.world.Submit(func(*world.World) {
		player.MarkLoggedOut()
	})
}

func (s *Server) handshakeFailed(conn net.Conn, err error) {
	remote := conn.RemoteAddr().String()
	var rej *login.Rejection
	switch {
	case errors.As(err, &rej):
		// the handshaker already logged the reason
		s.metrics.rejection(rej.Code.String())
	case errors.Is(err, login.ErrOnlineCountServed):
		slog.Debug("online count served", "remote", remote)
	case errors.Is(err, login.ErrUnsupportedConnection), errors.Is(err, io.EOF):
		slog.Debug("handshake aborted", "remote", remote, "error", err)
	default:
		slog.Info("handshake failed", "remote", remote, "error", err)
	}
}

// enter registers the player on the tick goroutine and sends the login
// interfaces. The first synchronization then places the player.
func (s *Server) enter(c *GameClient) world.Job {
	return func(w *world.World) {
		p := c.player
		if err := w.Register(p); err != nil {
			slog.Warn("entering world failed", "user", p.Username(), "error", err)
			c.session.End()
			c.CloseAsync()
			return
		}
		s.clients.Register(c)

		for tab, iface := range sidebarInterfaces {
			if iface < 0 {
				continue
			}
			send(c, serverpackets.SidebarInterface{Tab: tab, Interface: iface})
		}
		send(c, serverpackets.SystemText{Text: WelcomeText})
		slog.Info("player entered the world", "user", p.Username(), "index", p.Index(), "online", w.Online())
	}
}

// readLoop decodes frames until the connection fails. Unknown opcodes and
// undecodable messages are logged and skipped.
func (s *Server) readLoop(ctx context.Context, c *GameClient) error {
	rev := c.session.Revision
	for {
		if s.cfg.ReadTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
				return fmt.Errorf("setting read deadline: %w", err)
			}
		}

		f, err := protocol.ReadFrame(c.conn, c.session.Decoder, rev)
		if errors.Is(err, protocol.ErrUnknownOpcode) {
			s.metrics.drop(dropUnknownOpcode)
			slog.Warn("unknown opcode", "user", c.player.Username(), "error", err)
			continue
		}
		if err != nil {
			return err
		}

		if err := s.handler.Handle(ctx, c, f); err != nil {
			reason := dropMalformed
			if errors.Is(err, ErrNoHandler) {
				reason = dropNoHandler
			}
			s.metrics.drop(reason)
			slog.Warn("message dropped", "user", c.player.Username(), "opcode", f.Opcode, "error", err)
		}
	}
}
