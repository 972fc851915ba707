package kerngo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParam is returned when a scalar argument is out of its
	// documented range (dimension, batch size, block size, data bits).
	ErrInvalidParam = errors.New("kerngo: invalid parameter")

	// ErrInvalidPointer is returned when a required slice is nil or too
	// small for the requested operation.
	ErrInvalidPointer = errors.New("kerngo: invalid pointer")

	// ErrUnsafeMem is returned when a bounded copy out of kernel scratch
	// would overrun the destination buffer.
	ErrUnsafeMem = errors.New("kerngo: unsafe memory access")
)

// ParamError reports a scalar argument outside its documented range.
//
// errors.Is(err, ErrInvalidParam) holds for every ParamError.
type ParamError struct {
	Op    string
	Arg   string
	Value int64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("kerngo: %s: parameter %s out of range: %d", e.Op, e.Arg, e.Value)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParam }

// PointerError reports a nil or undersized slice argument.
//
// errors.Is(err, ErrInvalidPointer) holds for every PointerError.
type PointerError struct {
	Op   string
	Arg  string
	Need int
	Got  int
	Nil  bool
}

func (e *PointerError) Error() string {
	if e.Nil {
		return fmt.Sprintf("kerngo: %s: %s is nil", e.Op, e.Arg)
	}
	return fmt.Sprintf("kerngo: %s: %s too small: need %d, got %d", e.Op, e.Arg, e.Need, e.Got)
}

func (e *PointerError) Unwrap() error { return ErrInvalidPointer }

// MemError reports that a bounded copy would overrun its destination.
//
// errors.Is(err, ErrUnsafeMem) holds for every MemError.
type MemError struct {
	Op   string
	Need int
	Got  int
}

func (e *MemError) Error() string {
	return fmt.Sprintf("kerngo: %s: destination too small for remainder: need %d, got %d", e.Op, e.Need, e.Got)
}

func (e *MemError) Unwrap() error { return ErrUnsafeMem }
