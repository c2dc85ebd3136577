// math/vecmat.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

// a*b, component-wise
func Mul2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] * b[0], a[1] * b[1]}
}

///////////////////////////////////////////////////////////////////////////
// 4x4 matrix

// Matrix4 is a 4x4 matrix stored in column-major order: m[c][r] is the
// element in column c and row r, which is the layout OpenGL expects for
// uniform uploads without transposition.
type Matrix4 [4][4]float32

// Ortho4x4 returns an orthographic projection that maps x0 and x1 to -1
// and 1 in x, y0 and y1 to -1 and 1 in y, and z=near and z=far to -1 and 1
// in z. Passing y0 > y1 gives the usual flipped-y screen-space projection.
func Ortho4x4(x0, x1, y0, y1, near, far float32) Matrix4 {
	var m Matrix4
	m[0][0] = 2 / (x1 - x0)
	m[1][1] = 2 / (y1 - y0)
	m[2][2] = -2 / (far - near)
	m[3][0] = -(x1 + x0) / (x1 - x0)
	m[3][1] = -(y1 + y0) / (y1 - y0)
	m[3][2] = -(far + near) / (far - near)
	m[3][3] = 1
	return m
}

// TransformPoint transforms the point (p[0], p[1], 0, 1) and returns the
// resulting x and y; no perspective divide is done.
func (m Matrix4) TransformPoint(p [2]float32) [2]float32 {
	return [2]float32{
		m[0][0]*p[0] + m[1][0]*p[1] + m[3][0],
		m[0][1]*p[0] + m[1][1]*p[1] + m[3][1],
	}
}

// Floats returns the matrix's 16 elements in column-major order.
func (m Matrix4) Floats() [16]float32 {
	var f [16]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			f[4*c+r] = m[c][r]
		}
	}
	return f
}
