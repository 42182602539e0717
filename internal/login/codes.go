package login

import "fmt"

// ResponseCode is the single byte the server answers a login block with.
type ResponseCode byte

const (
	ResponseOK                 ResponseCode = 0
	ResponseRetry              ResponseCode = 1
	ResponseSuccess            ResponseCode = 2
	ResponseBadCredentials     ResponseCode = 3
	ResponseBannedAccount      ResponseCode = 4
	ResponseConflictingSession ResponseCode = 5
	ResponseInvalidRevision    ResponseCode = 6
	ResponseWorldFull          ResponseCode = 7
	ResponseLoginOffline       ResponseCode = 8
	ResponseTooManyConnections ResponseCode = 9
	ResponseBadSessionID       ResponseCode = 10
	ResponseRejectedSession    ResponseCode = 11
	ResponseNonMembers         ResponseCode = 12
	ResponseWorldOffline       ResponseCode = 13
	ResponseUpdateInProgress   ResponseCode = 14
	ResponseTooManyAttempts    ResponseCode = 16
	ResponseBadPosition        ResponseCode = 17
	ResponseBadLoginServer     ResponseCode = 20
	ResponseWorldTransfer      ResponseCode = 21
)

func (c ResponseCode) String() string {
	switch c {
	case ResponseOK:
		return "OK"
	case ResponseRetry:
		return "RETRY"
	case ResponseSuccess:
		return "SUCCESS"
	case ResponseBadCredentials:
		return "BAD_CREDENTIALS"
	case ResponseBannedAccount:
		return "BANNED_ACCOUNT"
	case ResponseConflictingSession:
		return "CONFLICTING_SESSION"
	case ResponseInvalidRevision:
		return "INVALID_REVISION"
	case ResponseWorldFull:
		return "WORLD_FULL"
	case ResponseLoginOffline:
		return "LOGIN_OFFLINE"
	case ResponseTooManyConnections:
		return "TOO_MANY_CONNECTIONS"
	case ResponseBadSessionID:
		return "BAD_SESSION_ID"
	case ResponseRejectedSession:
		return "REJECTED_SESSION"
	case ResponseNonMembers:
		return "NON_MEMBERS"
	case ResponseWorldOffline:
		return "WORLD_OFFLINE"
	case ResponseUpdateInProgress:
		return "UPDATE_IN_PROGRESS"
	case ResponseTooManyAttempts:
		return "TOO_MANY_ATTEMPTS"
	case ResponseBadPosition:
		return "BAD_POSITION"
	case ResponseBadLoginServer:
		return "BAD_LOGIN_SERVER"
	case ResponseWorldTransfer:
		return "WORLD_TRANSFER"
	default:
		return fmt.Sprintf("ResponseCode(%d)", byte(c))
	}
}

// Rejection is a login refused with a response code. The code has already
// been sent when Run returns it.
type Rejection struct {
	Code   ResponseCode
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("login rejected with %s: %s", r.Code, r.Reason)
}
