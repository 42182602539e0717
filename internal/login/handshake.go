package login

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/crypto"
	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

var (
	// ErrUnsupportedConnection is returned for a connection type other than
	// login or online count. Nothing is written back.
	ErrUnsupportedConnection = errors.New("login: unsupported connection type")

	// ErrOnlineCountServed is returned after answering an online count query.
	// The connection is done.
	ErrOnlineCountServed = errors.New("login: online count served")
)

// HandshakeConfig configures a Handshaker.
type HandshakeConfig struct {
	// Revision is the client revision the server accepts.
	Revision int
	// RSAKey decrypts the secure part of the login block. Nil means the
	// client sends it in the clear.
	RSAKey *rsa.PrivateKey
	// AutoCreate creates a profile for an unknown username.
	AutoCreate bool
	// Timeout bounds the whole handshake. Zero disables it.
	Timeout time.Duration
}

// Session is an authorized connection ready to enter the world.
type Session struct {
	Profile      *model.Profile
	Revision     *protocol.Revision
	Decoder      *crypto.ISAAC
	Encoder      *crypto.ISAAC
	UID          int
	LowMemory    bool
	Reconnecting bool
	Addr         string

	state       atomic.Int32
	releaseOnce sync.Once
	release     func()
}

// State returns the connection state.
func (s *Session) State() ConnectionState {
	return ConnectionState(s.state.Load())
}

func (s *Session) setState(st ConnectionState) {
	s.state.Store(int32(st))
}

// End marks the session logged out and frees its username. Safe to call
// more than once.
func (s *Session) End() {
	s.releaseOnce.Do(func() {
		s.setState(StateLoggedOut)
		if s.release != nil {
			s.release()
		}
	})
}

// Handshaker runs the login exchange on new connections.
type Handshaker struct {
	cfg      HandshakeConfig
	profiles ProfileRepository
	sessions *SessionManager
}

// NewHandshaker creates a Handshaker.
func NewHandshaker(cfg HandshakeConfig, profiles ProfileRepository, sessions *SessionManager) *Handshaker {
	return &Handshaker{
		cfg:      cfg,
		profiles: profiles,
		sessions: sessions,
	}
}

// Run performs the handshake on conn.
//
// A refused login is answered with its response code and returned as a
// *Rejection. ErrOnlineCountServed and ErrUnsupportedConnection end the
// connection without a login. Any other error is a transport failure.
func (h *Handshaker) Run(ctx context.Context, conn net.Conn) (*Session, error) {
	if h.cfg.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(h.cfg.Timeout)); err != nil {
			return nil, fmt.Errorf("setting handshake deadline: %w", err)
		}
		defer func() { _ = conn.SetDeadline(time.Time{}) }()
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	s := &Session{Addr: remoteAddr(conn)}
	s.setState(StatePendingConnection)

	var hello [2]byte // connection type, name hash
	if _, err := io.ReadFull(conn, hello[:]); err != nil {
		return nil, fmt.Errorf("reading connection type: %w", err)
	}
	switch hello[0] {
	case constants.ConnectionTypeLogin:
	case constants.ConnectionTypeOnlineCount:
		count := min(h.sessions.Count(), 0xFF)
		if _, err := conn.Write([]byte{byte(count)}); err != nil {
			return nil, fmt.Errorf("sending online count: %w", err)
		}
		return nil, ErrOnlineCountServed
	default:
		return nil, fmt.Errorf("connection type %d: %w", hello[0], ErrUnsupportedConnection)
	}

	serverSeed, err := newServerSeed()
	if err != nil {
		return nil, err
	}
	w := packet.NewWriter(constants.HandshakeIgnoredBytes + 1 + 8)
	w.WriteBytes(make([]byte, constants.HandshakeIgnoredBytes))
	w.WriteInt8(int(ResponseOK), packet.Std)
	w.WriteLong(int64(serverSeed), packet.Std, packet.Big)
	if _, err := conn.Write(w.Bytes()); err != nil {
		return nil, fmt.Errorf("sending server seed: %w", err)
	}
	s.setState(StatePendingLoginBlock)

	var head [2]byte // login opcode, block length
	if _, err := io.ReadFull(conn, head[:]); err != nil {
		return nil, fmt.Errorf("reading login header: %w", err)
	}
	switch head[0] {
	case constants.LoginOpcodeNew:
	case constants.LoginOpcodeReconnect:
		s.Reconnecting = true
	default:
		return nil, h.reject(conn, s, ResponseRejectedSession, fmt.Sprintf("login opcode %d", head[0]))
	}

	block := make([]byte, head[1])
	if _, err := io.ReadFull(conn, block); err != nil {
		return nil, fmt.Errorf("reading login block: %w", err)
	}

	creds, rej := h.parseBlock(s, block, serverSeed)
	if rej != nil {
		return nil, h.reject(conn, s, rej.Code, rej.Reason)
	}
	s.setState(StatePendingWorldEntry)

	if code, reason := h.authorize(ctx, s, creds); code != ResponseSuccess {
		return nil, h.reject(conn, s, code, reason)
	}

	rights := min(max(s.Profile.Rights, 0), model.RightsAdmin)
	if _, err := conn.Write([]byte{byte(ResponseSuccess), byte(rights), 0}); err != nil {
		s.End()
		return nil, fmt.Errorf("sending login success: %w", err)
	}
	s.setState(StateLoggedIn)

	slog.Info("login accepted", "user", s.Profile.Username, "remote", s.Addr, "revision", s.Revision.Number)
	return s, nil
}

type credentials struct {
	username string
	password string
}

// parseBlock decodes the login block and derives the session ciphers.
func (h *Handshaker) parseBlock(s *Session, block []byte, serverSeed uint64) (credentials, *Rejection) {
	var creds credentials
	malformed := func(err error) *Rejection {
		return &Rejection{Code: ResponseRejectedSession, Reason: fmt.Sprintf("malformed login block: %v", err)}
	}

	r := packet.NewReader(block)
	magic, err := r.ReadInt8(false, packet.Std)
	if err != nil {
		return creds, malformed(err)
	}
	if magic != constants.LoginBlockMagic {
		return creds, &Rejection{Code: ResponseRejectedSession, Reason: fmt.Sprintf("magic %d", magic)}
	}

	number, err := r.ReadShort(false, packet.Std, packet.Big)
	if err != nil {
		return creds, malformed(err)
	}
	rev, err := protocol.Lookup(number)
	if err != nil || number != h.cfg.Revision {
		return creds, &Rejection{Code: ResponseInvalidRevision, Reason: fmt.Sprintf("revision %d", number)}
	}
	s.Revision = rev

	lowMemory, err := r.ReadInt8(false, packet.Std)
	if err != nil {
		return creds, malformed(err)
	}
	s.LowMemory = lowMemory == 1

	for range constants.ArchiveCRCCount {
		if _, err := r.ReadInt(false, packet.Std, packet.Big); err != nil {
			return creds, malformed(err)
		}
	}

	size := r.Remaining()
	if rev.RSALengthPrefix {
		n, err := r.ReadInt8(false, packet.Std)
		if err != nil {
			return creds, malformed(err)
		}
		if n != r.Remaining() {
			return creds, &Rejection{Code: ResponseRejectedSession, Reason: fmt.Sprintf("secure block of %d bytes announced as %d", r.Remaining(), n)}
		}
		size = n
	}
	secure, err := r.ReadBytes(size)
	if err != nil {
		return creds, malformed(err)
	}
	if h.cfg.RSAKey != nil {
		if secure, err = crypto.RSADecryptBlock(h.cfg.RSAKey, secure); err != nil {
			return creds, &Rejection{Code: ResponseRejectedSession, Reason: err.Error()}
		}
	}

	sr := packet.NewReader(secure)
	op, err := sr.ReadInt8(false, packet.Std)
	if err != nil {
		return creds, malformed(err)
	}
	if op != constants.RSABlockOpcode {
		return creds, &Rejection{Code: ResponseRejectedSession, Reason: fmt.Sprintf("secure block opcode %d", op)}
	}

	clientSeed, err := sr.ReadLong(packet.Std, packet.Big)
	if err != nil {
		return creds, malformed(err)
	}
	echoed, err := sr.ReadLong(packet.Std, packet.Big)
	if err != nil {
		return creds, malformed(err)
	}
	if uint64(echoed) != serverSeed {
		return creds, &Rejection{Code: ResponseBadSessionID, Reason: "server seed mismatch"}
	}

	uid, err := sr.ReadInt(false, packet.Std, packet.Big)
	if err != nil {
		return creds, malformed(err)
	}
	s.UID = int(uid)

	if creds.username, err = sr.ReadString(); err != nil {
		return creds, malformed(err)
	}
	if creds.password, err = sr.ReadString(); err != nil {
		return creds, malformed(err)
	}

	seed := [constants.SessionSeedWords]uint32{
		uint32(uint64(clientSeed) >> 32),
		uint32(clientSeed),
		uint32(serverSeed >> 32),
		uint32(serverSeed),
	}
	s.Decoder, s.Encoder = crypto.NewCipherPair(seed)
	return creds, nil
}

// authorize checks the credentials and claims the username.
func (h *Handshaker) authorize(ctx context.Context, s *Session, creds credentials) (ResponseCode, string) {
	if h.sessions.Blocked(s.Addr) {
		return ResponseTooManyAttempts, "address throttled"
	}

	name := model.NormalizeName(creds.username)
	if !validUsername(name) || strings.TrimSpace(creds.password) == "" {
		h.sessions.Fail(s.Addr)
		return ResponseBadCredentials, "invalid username or blank password"
	}

	profile, err := h.profiles.Profile(ctx, name)
	if err != nil {
		slog.Error("loading profile", "user", name, "error", err)
		return ResponseLoginOffline, "profile lookup failed"
	}
	if profile == nil {
		if !h.cfg.AutoCreate {
			h.sessions.Fail(s.Addr)
			return ResponseBadCredentials, "unknown username"
		}
		if profile, err = h.createProfile(ctx, name, creds.password, s.Addr); err != nil {
			slog.Error("creating profile", "user", name, "error", err)
			return ResponseLoginOffline, "profile creation failed"
		}
	}

	if !db.CheckPassword(profile.PasswordHash, creds.password) {
		h.sessions.Fail(s.Addr)
		return ResponseBadCredentials, "wrong password"
	}
	if profile.Banned {
		return ResponseBannedAccount, "banned"
	}

	if code := h.sessions.Acquire(name, s.Addr); code != ResponseSuccess {
		return code, "session refused"
	}
	s.Profile = profile
	s.release = func() { h.sessions.Release(name) }

	if err := h.profiles.TouchLogin(ctx, name, s.Addr); err != nil {
		slog.Error("failed to update last login", "user", name, "error", err)
	}
	return ResponseSuccess, ""
}

func (h *Handshaker) createProfile(ctx context.Context, name, password, addr string) (*model.Profile, error) {
	hash, err := db.HashPassword(password)
	if err != nil {
		return nil, err
	}
	profile, err := h.profiles.CreateProfile(ctx, &model.Profile{
		Username:     name,
		PasswordHash: hash,
		Rights:       model.RightsPlayer,
		LastIP:       addr,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("auto-created profile", "user", name)
	return profile, nil
}

// reject sends code and returns the matching Rejection.
func (h *Handshaker) reject(conn net.Conn, s *Session, code ResponseCode, reason string) error {
	slog.Info("login rejected", "remote", s.Addr, "code", code, "reason", reason)
	if _, err := conn.Write([]byte{byte(code)}); err != nil {
		return fmt.Errorf("sending %s: %w", code, err)
	}
	return &Rejection{Code: code, Reason: reason}
}

func validUsername(name string) bool {
	if name == "" || len(name) > model.MaxNameLength {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == ' ':
		default:
			return false
		}
	}
	return true
}

func newServerSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("generating server seed: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// remoteAddr returns the host part of the peer address.
func remoteAddr(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
