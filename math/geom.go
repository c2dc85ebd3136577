// math/geom.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float32
}

// Extent2DFromRect returns the Extent2D for a rectangle given as
// (x0, y0, x1, y1), the representation imgui uses for clip rectangles.
func Extent2DFromRect(r [4]float32) Extent2D {
	return Extent2D{P0: [2]float32{r[0], r[1]}, P1: [2]float32{r[2], r[3]}}
}

func (e Extent2D) Width() float32 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float32 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Inside(p [2]float32) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// ClosestPointInBox returns the closest point to p that is inside the
// Extent2D.  (If p is already inside it, then it is returned.)
func (e Extent2D) ClosestPointInBox(p [2]float32) [2]float32 {
	return [2]float32{Clamp(p[0], e.P0[0], e.P1[0]), Clamp(p[1], e.P0[1], e.P1[1])}
}

func (e Extent2D) Offset(p [2]float32) Extent2D {
	return Extent2D{P0: Add2f(e.P0, p), P1: Add2f(e.P1, p)}
}

// Remap subtracts origin from both corners and then scales them
// component-wise by scale.
func (e Extent2D) Remap(origin, scale [2]float32) Extent2D {
	return Extent2D{
		P0: Mul2f(Sub2f(e.P0, origin), scale),
		P1: Mul2f(Sub2f(e.P1, origin), scale),
	}
}
