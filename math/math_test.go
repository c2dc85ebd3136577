// math/math_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestOrtho4x4(t *testing.T) {
	type test struct {
		pos, size [2]float32
		p, clip   [2]float32
	}
	for _, tc := range []test{
		{pos: [2]float32{0, 0}, size: [2]float32{800, 600}, p: [2]float32{0, 0}, clip: [2]float32{-1, 1}},
		{pos: [2]float32{0, 0}, size: [2]float32{800, 600}, p: [2]float32{800, 600}, clip: [2]float32{1, -1}},
		{pos: [2]float32{0, 0}, size: [2]float32{800, 600}, p: [2]float32{400, 300}, clip: [2]float32{0, 0}},
		{pos: [2]float32{100, 50}, size: [2]float32{200, 100}, p: [2]float32{100, 50}, clip: [2]float32{-1, 1}},
		{pos: [2]float32{100, 50}, size: [2]float32{200, 100}, p: [2]float32{300, 150}, clip: [2]float32{1, -1}},
	} {
		m := Ortho4x4(tc.pos[0], tc.pos[0]+tc.size[0], tc.pos[1]+tc.size[1], tc.pos[1], -1, 1)
		c := m.TransformPoint(tc.p)
		if Abs(c[0]-tc.clip[0]) > 1e-6 || Abs(c[1]-tc.clip[1]) > 1e-6 {
			t.Errorf("pos %v size %v: %v mapped to %v, expected %v", tc.pos, tc.size, tc.p, c, tc.clip)
		}
	}
}

func TestOrtho4x4Layout(t *testing.T) {
	// Translation lives in the last column, as the shader expects.
	m := Ortho4x4(0, 800, 600, 0, -1, 1)
	f := m.Floats()
	expect := [16]float32{
		2. / 800, 0, 0, 0,
		0, -2. / 600, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
	for i := range f {
		if Abs(f[i]-expect[i]) > 1e-7 {
			t.Errorf("element %d: got %g, expected %g", i, f[i], expect[i])
		}
	}
}

func TestExtentRemap(t *testing.T) {
	e := Extent2DFromRect([4]float32{10, 20, 110, 70})
	r := e.Remap([2]float32{10, 10}, [2]float32{2, 3})
	if r.P0 != [2]float32{0, 30} || r.P1 != [2]float32{200, 180} {
		t.Errorf("got %v, expected {[0 30] [200 180]}", r)
	}
	if r.Width() != 200 || r.Height() != 150 {
		t.Errorf("got %gx%g, expected 200x150", r.Width(), r.Height())
	}
	if !r.Inside([2]float32{0, 30}) || r.Inside([2]float32{-1, 30}) {
		t.Errorf("Inside: P0 should be inside and [-1 30] outside")
	}
	if p := r.ClosestPointInBox([2]float32{-5, 500}); p != [2]float32{0, 180} {
		t.Errorf("ClosestPointInBox: got %v, expected [0 180]", p)
	}
}

func TestSaturate32(t *testing.T) {
	for _, tc := range []struct {
		v float32
		r int32
	}{
		{v: 12.7, r: 12},
		{v: -3.5, r: -3},
		{v: 1e20, r: gomath.MaxInt32},
		{v: -1e20, r: gomath.MinInt32},
		{v: float32(gomath.NaN()), r: 0},
	} {
		if r := Saturate32(tc.v); r != tc.r {
			t.Errorf("%g: got %d, expected %d", tc.v, r, tc.r)
		}
	}
}
