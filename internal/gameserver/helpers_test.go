package gameserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
	"github.com/udisondev/rs2go/internal/testutil"
	"github.com/udisondev/rs2go/internal/world"
)

func rev317(t testing.TB) *protocol.Revision {
	t.Helper()
	rev, err := protocol.Lookup(317)
	require.NoError(t, err)
	return rev
}

func testDefs() *model.EquipmentDefinitions {
	return model.NewEquipmentDefinitions(
		model.EquipmentDefinition{ID: 1153, Name: "Iron full helm", Slot: model.SlotHead, FullHelm: true},
		model.EquipmentDefinition{ID: 1115, Name: "Iron platebody", Slot: model.SlotBody, FullBody: true},
		model.EquipmentDefinition{ID: 1277, Name: "Bronze sword", Slot: model.SlotWeapon},
		model.EquipmentDefinition{ID: 1307, Name: "Bronze 2h sword", Slot: model.SlotWeapon, TwoHanded: true},
		model.EquipmentDefinition{ID: 1173, Name: "Bronze sq shield", Slot: model.SlotShield},
		model.EquipmentDefinition{ID: 882, Name: "Bronze arrow", Slot: model.SlotArrows, Stackable: true},
		model.EquipmentDefinition{ID: 995, Name: "Coins", Slot: model.NoSlot, Stackable: true},
	)
}

// memProfiles is an in-memory login.ProfileRepository.
type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[string]*model.Profile)}
}

func (m *memProfiles) add(t testing.TB, name, password string, rights int) *model.Profile {
	t.Helper()
	hash, err := db.HashPassword(password)
	require.NoError(t, err)
	p := &model.Profile{Username: name, PasswordHash: hash, Rights: rights}
	m.mu.Lock()
	m.profiles[name] = p
	m.mu.Unlock()
	return p
}

// stored returns a copy of the persisted profile.
func (m *memProfiles) stored(name string) model.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.profiles[name]
}

func (m *memProfiles) Profile(_ context.Context, username string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[username]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) CreateProfile(_ context.Context, p *model.Profile) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[p.Username]; ok {
		return existing, nil
	}
	m.profiles[p.Username] = p
	return p, nil
}

func (m *memProfiles) update(username string, fn func(*model.Profile)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[username]
	if !ok {
		return db.ErrProfileNotFound
	}
	fn(p)
	return nil
}

func (m *memProfiles) SetBanned(_ context.Context, username string, banned bool) error {
	return m.update(username, func(p *model.Profile) { p.Banned = banned })
}

func (m *memProfiles) SetMuted(_ context.Context, username string, muted bool) error {
	return m.update(username, func(p *model.Profile) { p.Muted = muted })
}

func (m *memProfiles) TouchLogin(_ context.Context, username, ip string) error {
	return m.update(username, func(p *model.Profile) { p.LastIP = ip })
}

// harness drives a world without a network: clients have no write pump, so
// everything they are sent stays in their queue for inspection.
type harness struct {
	rev      *protocol.Revision
	world    *world.World
	clients  *ClientManager
	profiles *memProfiles
	handler  *Handler
	sync     *Synchronizer
	ticker   *world.Ticker

	// flags holds each player's pending state as the tick saw it.
	flags map[string]model.UpdateFlags
}

func newHarness(t testing.TB) *harness {
	t.Helper()
	h := &harness{
		rev:      rev317(t),
		world:    world.New(10),
		clients:  NewClientManager(),
		profiles: newMemProfiles(),
		flags:    make(map[string]model.UpdateFlags),
	}
	defs := testDefs()
	h.handler = NewHandler(h.world, h.clients, defs, h.profiles, nil)
	h.sync = NewSynchronizer(h.world, h.clients, defs)
	h.ticker = world.NewTicker(h.world, time.Hour, func(p *model.Player) error {
		h.flags[p.Username()] = p.Flags
		return h.sync.Sync(p)
	}, world.WithLeaveHook(h.sync.Leave))
	return h
}

// join puts a logged-in player in the world and settles its first tick.
func (h *harness) join(t testing.TB, name string, rights int) *GameClient {
	t.Helper()
	stored := h.profiles.add(t, name, "pw", rights)
	profile := *stored

	_, conn := testutil.PipeConn(t)
	session := &login.Session{Profile: &profile, Revision: h.rev, Addr: "127.0.0.1"}
	player := model.NewPlayer(&profile, testDefs(), model.DefaultSpawn)
	c := NewGameClient(conn, session, player, 1024, time.Second)

	require.NoError(t, h.world.Register(player))
	h.clients.Register(c)
	h.tick(t)
	drain(c)
	return c
}

func (h *harness) tick(t testing.TB) {
	t.Helper()
	require.NoError(t, h.ticker.Tick())
}

// handle dispatches a payload for an inbound kind.
func (h *harness) handle(t testing.TB, c *GameClient, in protocol.Inbound, option int, payload []byte) error {
	t.Helper()
	op := opcodeOf(t, h.rev, in, option)
	return h.handler.Handle(context.Background(), c, protocol.NewFrame(op, protocol.Fixed, payload))
}

func opcodeOf(t testing.TB, rev *protocol.Revision, in protocol.Inbound, option int) byte {
	t.Helper()
	for op, r := range rev.Routes {
		if r.Inbound == in && r.Option == option && r.Trailer == 0 {
			return byte(op)
		}
	}
	t.Fatalf("revision %d has no opcode for %s option %d", rev.Number, in, option)
	return 0
}

// drain empties the client's queue. A nil entry is the close marker.
func drain(c *GameClient) [][]byte {
	var out [][]byte
	for {
		select {
		case data := <-c.sendCh:
			out = append(out, data)
		default:
			return out
		}
	}
}

// texts returns the chat box lines among the queued messages.
func texts(rev *protocol.Revision, queued [][]byte) []string {
	var out []string
	for _, data := range queued {
		if len(data) < 3 || data[0] != rev.Out.SystemText {
			continue
		}
		out = append(out, string(data[2:len(data)-1]))
	}
	return out
}

func opcodes(queued [][]byte) []int {
	out := make([]int, 0, len(queued))
	for _, data := range queued {
		if data == nil {
			out = append(out, -1)
			continue
		}
		out = append(out, int(data[0]))
	}
	return out
}
