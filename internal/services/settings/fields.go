package settings

import (
	"fmt"
	"time"
)

// ValidationError is returned when a candidate settings document is
// rejected. No partial state is ever applied on a validation error.
type ValidationError string

// Error implements the error interface
func (e ValidationError) Error() string {
	return string(e)
}

func validationErrorf(format string, args ...any) ValidationError {
	return ValidationError(fmt.Sprintf(format, args...))
}

// field is one typed, optionally-required, optionally-defaulted setting
// slot in the schema template. Each field type self-validates.
type field struct {
	required bool
	def      any
	check    func(value any) error

	// value is filled in while a candidate document is combined into
	// the template
	value any
}

// validate checks the field's current value, nil being allowed for
// non-required fields.
func (f *field) validate() error {
	if f.value == nil {
		if f.required && f.def == nil {
			return ValidationError("a required setting is missing")
		}
		return nil
	}
	return f.check(f.value)
}

// valueOrDefault returns the value with the default applied.
func (f *field) valueOrDefault() any {
	if f.value == nil {
		return f.def
	}
	return f.value
}

func intField(def any) *field {
	return &field{
		def: def,
		check: func(v any) error {
			if _, ok := asInt(v); !ok {
				return validationErrorf("`%v` should be a number", v)
			}
			return nil
		},
	}
}

func stringField(def any) *field {
	return &field{
		def: def,
		check: func(v any) error {
			if _, ok := v.(string); !ok {
				return validationErrorf("`%v` should be a string", v)
			}
			return nil
		},
	}
}

func timezoneField() *field {
	return &field{
		required: true,
		def:      "UTC",
		check: func(v any) error {
			name, ok := v.(string)
			if !ok {
				return validationErrorf("`%v` should be a timezone name", v)
			}
			if _, err := time.LoadLocation(name); err != nil {
				return validationErrorf("`%s` is not a valid timezone", name)
			}
			return nil
		},
	}
}

func channelField(channels func() map[string]struct{}) *field {
	return &field{
		check: func(v any) error {
			id, ok := asID(v)
			if !ok {
				return validationErrorf("`%v` should be a channel id", v)
			}
			if _, ok := channels()[id]; !ok {
				return validationErrorf("`%s` is not a valid channel", id)
			}
			return nil
		},
	}
}

func roleField(roles func() map[string]struct{}) *field {
	return &field{
		check: func(v any) error {
			id, ok := asID(v)
			if !ok {
				return validationErrorf("`%v` should be a role id", v)
			}
			if _, ok := roles()[id]; !ok {
				return validationErrorf("`%s` is not a valid role", id)
			}
			return nil
		},
	}
}

// asInt accepts the number representations the YAML and JSON decoders
// produce for integers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// asID accepts platform ids, which are numeric strings but may arrive as
// bare numbers from a hand-edited document.
func asID(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if n, ok := asInt(v); ok {
		return fmt.Sprintf("%d", n), true
	}
	return "", false
}
