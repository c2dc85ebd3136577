// gpu/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import "errors"

var (
	ErrCreationFailed = errors.New("resource creation failed")
	ErrInvalidHandle  = errors.New("invalid handle")
	ErrCompileFailed  = errors.New("shader compilation failed")
	ErrLinkFailed     = errors.New("pipeline link failed")

	// ErrInvalidArgument is returned for malformed descriptors or host
	// data that is too small for the requested operation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is the error type returned by Device implementations. Op names
// the Device method that failed and Info holds any diagnostic text the
// graphics API provided (e.g., a shader info log).
type Error struct {
	Op   string
	Kind error
	Info string
}

func NewError(op string, kind error, info string) *Error {
	return &Error{Op: op, Kind: kind, Info: info}
}

func (e *Error) Error() string {
	s := "gpu: " + e.Op + ": " + e.Kind.Error()
	if e.Info != "" {
		s += ": " + e.Info
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Is reports compile and link failures as creation failures as well.
func (e *Error) Is(target error) bool {
	return target == ErrCreationFailed && (e.Kind == ErrCompileFailed || e.Kind == ErrLinkFailed)
}
