package model

import (
	"strings"
	"time"
)

// Rights levels.
const (
	RightsPlayer    = 0
	RightsModerator = 1
	RightsAdmin     = 2
)

// Profile represents an account stored in the database.
type Profile struct {
	Username     string
	PasswordHash string
	Rights       int
	Banned       bool
	Muted        bool
	LastLogin    time.Time
	LastIP       string
}

// NameHash returns the wire encoding of the profile's username.
func (p *Profile) NameHash() uint64 {
	return NameHash(p.Username)
}

// MaxNameLength is the longest name the base-37 encoding can hold.
const MaxNameLength = 12

// NameHash encodes a name in base 37 (a-z, 0-9 and space/underscore as separators).
// Characters outside the alphabet encode like a separator.
func NameHash(name string) uint64 {
	var h uint64
	for i := 0; i < len(name) && i < MaxNameLength; i++ {
		c := name[i]
		h *= 37
		switch {
		case c >= 'A' && c <= 'Z':
			h += uint64(1 + c - 'A')
		case c >= 'a' && c <= 'z':
			h += uint64(1 + c - 'a')
		case c >= '0' && c <= '9':
			h += uint64(27 + c - '0')
		}
	}
	for h%37 == 0 && h != 0 {
		h /= 37
	}
	return h
}

const nameAlphabet = "_abcdefghijklmnopqrstuvwxyz0123456789"

// NameFromHash decodes a base-37 name hash. Separators come back as '_'.
func NameFromHash(h uint64) string {
	if h == 0 {
		return ""
	}
	var buf [MaxNameLength]byte
	i := len(buf)
	for h != 0 && i > 0 {
		i--
		buf[i] = nameAlphabet[h%37]
		h /= 37
	}
	return string(buf[i:])
}

// NormalizeName lowercases a username and turns separators into spaces,
// the form names are stored and compared in.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", " ")
}
