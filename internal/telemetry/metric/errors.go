package metric

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInstrument is returned when an instrument has no name or an unknown kind.
	ErrInvalidInstrument = errors.New("metric: invalid instrument")

	// ErrKindMismatch is returned when a counter is observed or a histogram is incremented.
	ErrKindMismatch = errors.New("metric: instrument kind mismatch")
)

// DuplicateNameError is returned when an instrument name is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("metric: instrument %q already registered", e.Name)
}

// UnknownInstrumentError is returned when recording into an instrument that was never registered.
type UnknownInstrumentError struct {
	Name string
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("metric: unknown instrument %q", e.Name)
}

// InvalidValueError is returned when a counter increment is negative or NaN.
type InvalidValueError struct {
	Name  string
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("metric: invalid value %v for counter %q", e.Value, e.Name)
}

// IsDuplicate reports whether err is a DuplicateNameError.
func IsDuplicate(err error) bool {
	var dup *DuplicateNameError
	return errors.As(err, &dup)
}
