// renderer/color.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/imrender/math"
)

type RGBA struct {
	R, G, B, A float32
}

const displayGamma = 2.2

// GammaToLinear converts a color authored for display on a linear
// framebuffer so that it looks the same when written to an sRGB
// framebuffer. Alpha is corrected on its complement, which preserves
// fully opaque and fully transparent values.
func (c RGBA) GammaToLinear() RGBA {
	return RGBA{
		R: math.Pow(c.R, displayGamma),
		G: math.Pow(c.G, displayGamma),
		B: math.Pow(c.B, displayGamma),
		A: 1 - math.Pow(1-c.A, displayGamma),
	}
}

// LinearToGamma is the inverse of GammaToLinear.
func (c RGBA) LinearToGamma() RGBA {
	return RGBA{
		R: math.Pow(c.R, 1/displayGamma),
		G: math.Pow(c.G, 1/displayGamma),
		B: math.Pow(c.B, 1/displayGamma),
		A: 1 - math.Pow(1-c.A, 1/displayGamma),
	}
}

// correctStyleColors applies GammaToLinear to each of the engine's style
// colors. It must only be called once per engine.
func correctStyleColors(e GUIEngine) {
	colors := e.StyleColors()
	for i := range colors {
		colors[i] = colors[i].GammaToLinear()
	}
	e.SetStyleColors(colors)
}
