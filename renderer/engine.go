// renderer/engine.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// GUIEngine is the part of the immediate-mode GUI library that the
// renderer needs at initialization time; per-frame data arrives through
// FrameDrawData instead. See package imguidata for the implementation
// backed by cimgui-go.
type GUIEngine interface {
	// StyleColors returns a copy of the engine's style color table.
	StyleColors() []RGBA
	// SetStyleColors replaces the style colors; len(colors) matches what
	// StyleColors returned.
	SetStyleColors(colors []RGBA)
	// FontAtlas builds the font atlas, if needed, and returns its pixels.
	FontAtlas() (FontAtlas, error)
	// SetFontTexture records the texture that subsequent draw commands
	// should use for font glyphs.
	SetFontTexture(id TextureID)
}

// FontAtlas is an RGBA8 image, stored in row-major order with no padding
// between rows.
type FontAtlas struct {
	Width, Height int
	Pixels        []byte
}
