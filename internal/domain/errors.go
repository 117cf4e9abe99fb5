package domain

const (
	CodeUnauthenticated = "unauthenticated"
	CodeNotAMember      = "not_a_member"
	CodeInvalidEvent    = "invalid_event"
)

// CollabError is the error surface reported back to the acting client as an
// error{code, message} event. It never propagates to other members.
type CollabError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CollabError) Error() string {
	return e.Code + ": " + e.Message
}

// ErrUnauthenticated is returned for any action attempted before a
// successful authenticate.
var ErrUnauthenticated = &CollabError{
	Code:    CodeUnauthenticated,
	Message: "authenticate before performing this action",
}

// NotAMemberError reports a room-scoped action without membership.
func NotAMemberError(roomID string) *CollabError {
	return &CollabError{
		Code:    CodeNotAMember,
		Message: "not a member of room " + roomID,
	}
}

// InvalidEventError reports an unknown or malformed inbound event.
func InvalidEventError(detail string) *CollabError {
	return &CollabError{
		Code:    CodeInvalidEvent,
		Message: detail,
	}
}
