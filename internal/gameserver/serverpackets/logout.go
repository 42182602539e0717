package serverpackets

import "github.com/udisondev/rs2go/internal/protocol"

// Logout tells the client to close the connection and return to the title screen.
type Logout struct{}

// Build writes the empty close message.
func (Logout) Build(rev *protocol.Revision) (*protocol.Message, error) {
	return protocol.NewMessage(rev.Out.Close, protocol.Fixed), nil
}
