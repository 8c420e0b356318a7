package scrim

// ScrimError is a custom error type for scrim-related errors
type ScrimError string

// Error implements the error interface
func (e ScrimError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrScrimNotFound   ScrimError = "scrim not found"
	ErrNilConfig       ScrimError = "config cannot be nil"
	ErrNilClient       ScrimError = "chat client cannot be nil"
	ErrNilClock        ScrimError = "clock cannot be nil"
	ErrNilScrimRepo    ScrimError = "scrim repository cannot be nil"
	ErrNilTimeoutRepo  ScrimError = "timeout repository cannot be nil"
	ErrNilSettings     ScrimError = "settings service cannot be nil"
	ErrNilUUID         ScrimError = "UUID generator cannot be nil"
	ErrInvalidTime        ScrimError = "invalid time, format must be 14:00, 14.00 or 1400"
	ErrInvalidCapacity    ScrimError = "capacity must be positive"
	ErrOrganizerOnTimeout ScrimError = "organizer is on a timeout"
)
