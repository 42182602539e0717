package login

// ConnectionState represents the state machine of a game connection.
type ConnectionState int32

const (
	StatePendingConnection ConnectionState = iota // waiting for the connection type
	StatePendingLoginBlock                        // server seed sent
	StatePendingWorldEntry                        // ciphers derived, authorizing
	StateLoggedIn                                 // success code sent
	StateLoggedOut                                // session ended
)

func (s ConnectionState) String() string {
	switch s {
	case StatePendingConnection:
		return "PENDING_CONNECTION"
	case StatePendingLoginBlock:
		return "PENDING_LOGIN_BLOCK"
	case StatePendingWorldEntry:
		return "PENDING_WORLD_ENTRY"
	case StateLoggedIn:
		return "LOGGED_IN"
	case StateLoggedOut:
		return "LOGGED_OUT"
	default:
		return "UNKNOWN"
	}
}
