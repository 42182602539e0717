// Package clientpackets decodes the messages a logged-in client sends.
package clientpackets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/udisondev/rs2go/internal/packet"
	"github.com/udisondev/rs2go/internal/protocol"
)

// ErrMalformed is returned when a payload does not match its message layout.
var ErrMalformed = errors.New("malformed message")

// MaxChatLength bounds the packed text of a chat message.
const MaxChatLength = 80

// Chat is a public chat line. Text stays in the client's packed form and is
// relayed to other players as is.
type Chat struct {
	Effects int
	Color   int
	Text    []byte
}

// ParseChat decodes a chat message.
func ParseChat(rev *protocol.Revision, data []byte) (*Chat, error) {
	l := &rev.Layout
	r := packet.NewReader(data)

	effects, err := l.ChatEffects.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading chat effects: %w", err)
	}
	color, err := l.ChatColor.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading chat color: %w", err)
	}

	n := r.Remaining()
	if n == 0 || n > MaxChatLength {
		return nil, fmt.Errorf("chat text of %d bytes: %w", n, ErrMalformed)
	}
	text, err := r.ReadBytesReverse(n, l.ChatText)
	if err != nil {
		return nil, fmt.Errorf("reading chat text: %w", err)
	}
	return &Chat{Effects: effects, Color: color, Text: text}, nil
}

// Command is a "::" command typed in the chat box.
type Command struct {
	Name string
	Args []string
}

// ParseCommand decodes a command line. The name is lowercased.
func ParseCommand(_ *protocol.Revision, data []byte) (*Command, error) {
	r := packet.NewReader(data)
	line, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading command: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command: %w", ErrMalformed)
	}
	return &Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, nil
}
