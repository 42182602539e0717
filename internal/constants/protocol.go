package constants

// RS2 Protocol Constants
//
// Values shared by the handshake, the framing layer and the synchronization
// builder. They are fixed by the client and cannot be tuned.

// Network
const (
	// DefaultPort is the port the client connects to.
	DefaultPort = 43594

	// MaxFrameSize is the largest payload a VarShort frame can carry.
	MaxFrameSize = 0xFFFF

	// MaxVarBytePayload is the largest payload a VarByte frame can carry.
	MaxVarBytePayload = 0xFF
)

// Handshake
//
// Login connection bootstrap:
//
//	client: [connection type 1][name hash 1]
//	server: [ignored 8][status 1][server seed 8]
//	client: [login opcode 1][length 1][login block length]
//	server: [response code 1] or [2][rights 1][flagged 1]
const (
	// ConnectionTypeLogin starts a login handshake.
	ConnectionTypeLogin = 14

	// ConnectionTypeOnlineCount asks for the online player count (1 byte reply).
	ConnectionTypeOnlineCount = 15

	// LoginOpcodeNew is sent by a client logging in from the title screen.
	LoginOpcodeNew = 16

	// LoginOpcodeReconnect is sent by a client reconnecting after a dropped connection.
	LoginOpcodeReconnect = 18

	// LoginBlockMagic is the first byte of every login block.
	LoginBlockMagic = 0xFF

	// ArchiveCRCCount is the number of cache archive checksums in the login block.
	ArchiveCRCCount = 9

	// RSABlockOpcode opens the secure part of the login block.
	RSABlockOpcode = 10

	// HandshakeIgnoredBytes precedes the status byte in the server's first reply.
	HandshakeIgnoredBytes = 8

	// SessionSeedWords is the number of 32-bit words in the session seed.
	SessionSeedWords = 4
)

// World
const (
	// MaxPlayerIndex is the highest protocol index a player can occupy.
	// Index 0 is unused and 2047 terminates the local list.
	MaxPlayerIndex = 2046

	// LocalListTerminator ends the additions section of the synchronization message.
	LocalListTerminator = 2047

	// LocalListCapacity is the most entities one viewer can track.
	LocalListCapacity = 255

	// TickIntervalMillis is the server heartbeat.
	TickIntervalMillis = 600

	// RegionRefreshDistance is how close (in tiles) a player may get to the
	// edge of the loaded map before a new region is sent.
	RegionRefreshDistance = 16
)

// Bit widths used by the synchronization message.
const (
	IndexBits        = 11
	LocalCountBits   = 8
	MovementKindBits = 2
	DirectionBits    = 3
	PlaneBits        = 2
	LocalCoordBits   = 7
	DeltaBits        = 5
)

// Interfaces
const (
	// InventoryInterface is the interface id of the backpack item container.
	InventoryInterface = 3214

	// EquipmentInterface is the interface id of the worn item container.
	EquipmentInterface = 1688

	// LogoutButton is the button id of the logout tab's button.
	LogoutButton = 2458

	// InventorySize is the number of backpack slots.
	InventorySize = 28

	// EquipmentSize is the number of worn item slots.
	EquipmentSize = 14
)
