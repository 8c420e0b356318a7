package timeout

// TimeoutError is a timeout ledger error
type TimeoutError string

// Error returns the error message
func (e TimeoutError) Error() string {
	return string(e)
}

const (
	// ErrAlreadyOnTimeout is returned when the user already has an entry
	ErrAlreadyOnTimeout = TimeoutError("user is already on a timeout")

	// ErrNotOnTimeout is returned when the user has no entry
	ErrNotOnTimeout = TimeoutError("user is not on a timeout")

	// ErrInvalidDuration is returned when a duration string cannot be parsed
	ErrInvalidDuration = TimeoutError("invalid duration, format must be like 1d 5h 30m")

	// ErrNonPositiveDuration is returned for zero or negative durations
	ErrNonPositiveDuration = TimeoutError("duration must be positive")

	// ErrNilConfig is returned when the provided config is nil
	ErrNilConfig = TimeoutError("config cannot be nil")

	// ErrNilClient is returned when the provided chat client is nil
	ErrNilClient = TimeoutError("chat client cannot be nil")

	// ErrNilRepository is returned when the provided repository is nil
	ErrNilRepository = TimeoutError("timeout repository cannot be nil")

	// ErrNilClock is returned when the provided clock is nil
	ErrNilClock = TimeoutError("clock cannot be nil")
)
