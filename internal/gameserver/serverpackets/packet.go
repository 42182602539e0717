// Package serverpackets builds the messages the server sends after login.
package serverpackets

import "github.com/udisondev/rs2go/internal/protocol"

// Packet is an outbound message that knows how to encode itself for a
// client revision.
type Packet interface {
	Build(rev *protocol.Revision) (*protocol.Message, error)
}
