package chat

import (
	"errors"
	"fmt"
)

// Platform error codes that mean a resource is permanently gone. Any of
// these observed on a scrim's thread or messages ends the scrim.
const (
	CodeUnknownChannel = 10003
	CodeUnknownMessage = 10008
	CodeThreadArchived = 50083
)

// Error is a platform error carrying the platform's numeric error code.
// Adapters wrap their transport errors into this type so the engine can
// classify failures without knowing the transport.
type Error struct {
	// Code is the platform error code, 0 when unknown
	Code int

	// Op names the operation that failed
	Op string

	// Err is the underlying transport error
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chat: %s: code %d: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code extracts the platform error code from err, or 0 when there is none.
func Code(err error) int {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return 0
}

// IsFatal reports whether err means the resource is permanently gone
// rather than temporarily unavailable.
func IsFatal(err error) bool {
	switch Code(err) {
	case CodeUnknownChannel, CodeUnknownMessage, CodeThreadArchived:
		return true
	}
	return false
}
