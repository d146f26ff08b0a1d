package room

import "errors"

// Errors reported back to the client as room_error. Their text is user facing.
var (
	ErrServerFull     = errors.New("the server is full, please try again later")
	ErrRoomNotFound   = errors.New("room not found")
	ErrAlreadyStarted = errors.New("the game has already started")
	ErrRoomFull       = errors.New("the room is full")
)

// Errors that are silently ignored.
var (
	ErrAlreadyInRoom = errors.New("session is already in a room")
	ErrPrecondition  = errors.New("action not allowed now")
)

// Reportable reports whether err should be answered with a room_error.
func Reportable(err error) bool {
	return errors.Is(err, ErrServerFull) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrRoomFull)
}

// Reason is a short metric label for a reportable error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrServerFull):
		return "server_full"
	case errors.Is(err, ErrRoomNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	}
	return "other"
}
