package gameserver

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/crypto"
	"github.com/udisondev/rs2go/internal/gameserver/serverpackets"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
	"github.com/udisondev/rs2go/internal/testutil"
)

var testSeed = [4]uint32{1, 2, 3, 4}

func newTestClient(t *testing.T, queueSize int) (*GameClient, net.Conn) {
	t.Helper()
	peer, conn := testutil.PipeConn(t)
	_, enc := crypto.NewCipherPair(testSeed)
	session := &login.Session{
		Profile:  &model.Profile{Username: "alice"},
		Revision: rev317(t),
		Encoder:  enc,
		Addr:     "127.0.0.1",
	}
	player := model.NewPlayer(session.Profile, testDefs(), model.DefaultSpawn)
	return NewGameClient(conn, session, player, queueSize, time.Second), peer
}

// clientCipher mirrors the server's outbound cipher on the client side.
func clientCipher() protocol.Keystream {
	_, enc := crypto.NewCipherPair(testSeed)
	return enc
}

func readAll(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, n)
	_, err := io.ReadFull(conn, buf)
	require.NoError(t, err)
	return buf
}

func TestGameClient_SendEncodesOpcodes(t *testing.T) {
	t.Parallel()

	c, peer := newTestClient(t, 16)
	go c.writePump()
	defer c.CloseAsync()

	require.NoError(t, c.Send(serverpackets.Logout{}))
	require.NoError(t, c.Send(serverpackets.SystemText{Text: "hi"}))

	data := readAll(t, peer, 1+1+4)
	ks := clientCipher()
	rev := rev317(t)
	assert.Equal(t, rev.Out.Close, protocol.DecodeOpcode(data[0], ks))
	assert.Equal(t, rev.Out.SystemText, protocol.DecodeOpcode(data[1], ks))
	assert.Equal(t, []byte{3, 'h', 'i', 10}, data[2:])
}

func TestGameClient_BatchDrain(t *testing.T) {
	t.Parallel()

	c, peer := newTestClient(t, 16)

	// queued before the pump starts, so they go out as one batch
	for range 3 {
		require.NoError(t, c.Send(serverpackets.OpenInterface{Interface: 5292}))
	}
	go c.writePump()
	defer c.CloseAsync()

	data := readAll(t, peer, 9)
	ks := clientCipher()
	for i := range 3 {
		assert.Equal(t, rev317(t).Out.Interface, protocol.DecodeOpcode(data[i*3], ks))
		assert.Equal(t, []byte{0x14, 0xAC}, data[i*3+1:i*3+3])
	}
}

func TestGameClient_CloseAfterFlush(t *testing.T) {
	t.Parallel()

	c, peer := newTestClient(t, 16)
	require.NoError(t, c.Send(serverpackets.Logout{}))
	c.CloseAfterFlush()
	go c.writePump()

	readAll(t, peer, 1)
	_, err := peer.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF, "connection closed after the queued message")

	assert.ErrorIs(t, c.Send(serverpackets.Logout{}), ErrClientClosed)
}

func TestGameClient_QueueFullClosesClient(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, 1)

	require.NoError(t, c.Send(serverpackets.Logout{}))
	require.ErrorIs(t, c.Send(serverpackets.Logout{}), ErrSendQueueFull)
	assert.ErrorIs(t, c.Send(serverpackets.Logout{}), ErrClientClosed)

	select {
	case <-c.closeCh:
	default:
		t.Fatal("write pump not signaled")
	}
}

func TestGameClient_BuildErrorKeepsCipher(t *testing.T) {
	t.Parallel()

	c, peer := newTestClient(t, 16)
	go c.writePump()
	defer c.CloseAsync()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	require.ErrorIs(t, c.Send(serverpackets.SystemText{Text: string(long)}), protocol.ErrFrameTooLarge)
	require.NoError(t, c.Send(serverpackets.Logout{}))

	data := readAll(t, peer, 1)
	assert.Equal(t, rev317(t).Out.Close, protocol.DecodeOpcode(data[0], clientCipher()),
		"a failed message consumes no keystream value")
}

func TestClientManager(t *testing.T) {
	t.Parallel()

	cm := NewClientManager()
	c, _ := newTestClient(t, 1)
	other, _ := newTestClient(t, 1)

	cm.Register(c)
	cm.Register(other)
	assert.Equal(t, 2, cm.Count())
	assert.Same(t, c, cm.Client(c.Player()))

	seen := 0
	cm.ForEach(func(*GameClient) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen, "stops when fn returns false")

	cm.Unregister(c.Player())
	assert.Nil(t, cm.Client(c.Player()))
	assert.Equal(t, 1, cm.Count())
}
