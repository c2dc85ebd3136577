// gpu/gpu_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	type test struct {
		err        error
		creation   bool
		invalid    bool
		compile    bool
		hasMessage string
	}
	for _, tc := range []test{
		{err: NewError("CreateImage", ErrCreationFailed, ""), creation: true,
			hasMessage: "gpu: CreateImage: resource creation failed"},
		{err: NewError("BindSamplers", ErrInvalidHandle, "sampler 7"), invalid: true,
			hasMessage: "gpu: BindSamplers: invalid handle: sampler 7"},
		{err: NewError("CreateShader", ErrCompileFailed, "0:3: syntax error"), creation: true, compile: true,
			hasMessage: "gpu: CreateShader: shader compilation failed: 0:3: syntax error"},
		{err: fmt.Errorf("font atlas: %w", NewError("CreateImageView", ErrCreationFailed, "")), creation: true,
			hasMessage: "font atlas: gpu: CreateImageView: resource creation failed"},
	} {
		if errors.Is(tc.err, ErrCreationFailed) != tc.creation {
			t.Errorf("%v: errors.Is(ErrCreationFailed) = %v", tc.err, !tc.creation)
		}
		if errors.Is(tc.err, ErrInvalidHandle) != tc.invalid {
			t.Errorf("%v: errors.Is(ErrInvalidHandle) = %v", tc.err, !tc.invalid)
		}
		if errors.Is(tc.err, ErrCompileFailed) != tc.compile {
			t.Errorf("%v: errors.Is(ErrCompileFailed) = %v", tc.err, !tc.compile)
		}
		var gerr *Error
		if !errors.As(tc.err, &gerr) {
			t.Errorf("%v: errors.As(*Error) failed", tc.err)
		}
		if tc.err.Error() != tc.hasMessage {
			t.Errorf("got message %q, expected %q", tc.err.Error(), tc.hasMessage)
		}
	}
}

func TestAsBytes(t *testing.T) {
	if b := AsBytes([]uint16(nil)); b != nil {
		t.Errorf("nil slice: got %v, expected nil", b)
	}
	idx := []uint16{0x0102, 0x0304}
	if b := AsBytes(idx); len(b) != 4 {
		t.Errorf("got %d bytes, expected 4", len(b))
	}
	type vert struct {
		P, UV [2]float32
		C     [4]uint8
	}
	if b := AsBytes(make([]vert, 3)); len(b) != 60 {
		t.Errorf("got %d bytes, expected 60", len(b))
	}
}

func TestRangeCount(t *testing.T) {
	if c := (Range{Start: 6, End: 18}).Count(); c != 12 {
		t.Errorf("got %d, expected 12", c)
	}
	if c := (Range{Start: 6, End: 2}).Count(); c != 0 {
		t.Errorf("got %d, expected 0", c)
	}
}
