// imguidata/engine.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package imguidata connects cimgui-go to the renderer: Engine exposes
// the current imgui context's style colors and font atlas as a
// renderer.GUIEngine, and converts each frame's imgui.DrawData to a
// renderer.FrameDrawData.
package imguidata

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
)

var ErrNoFontAtlas = errors.New("imgui font atlas has not been built")

// Engine implements renderer.GUIEngine for the current imgui context.
type Engine struct {
	lg *log.Logger
}

var _ renderer.GUIEngine = (*Engine)(nil)

// NewEngine returns an Engine for the current imgui context. It fails if
// imgui's vertex or index layout doesn't match renderer.DrawVertex and
// 16-bit indices, since draw lists are passed to the renderer without
// conversion.
func NewEngine(lg *log.Logger) (*Engine, error) {
	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()
	if err := checkLayout(int(vertexSize), int(posOffset), int(uvOffset), int(colOffset), int(indexSize)); err != nil {
		return nil, err
	}
	return &Engine{lg: lg}, nil
}

func checkLayout(vertexSize, posOffset, uvOffset, colOffset, indexSize int) error {
	var v renderer.DrawVertex
	if vertexSize != int(unsafe.Sizeof(v)) || posOffset != int(unsafe.Offsetof(v.Pos)) ||
		uvOffset != int(unsafe.Offsetof(v.UV)) || colOffset != int(unsafe.Offsetof(v.Col)) {
		return fmt.Errorf("imgui vertex layout (size %d, offsets %d/%d/%d) does not match renderer.DrawVertex",
			vertexSize, posOffset, uvOffset, colOffset)
	}
	if indexSize != 2 {
		return fmt.Errorf("imgui uses %d-byte indices; 16-bit indices are required", indexSize)
	}
	return nil
}

func (e *Engine) StyleColors() []renderer.RGBA {
	colors := imgui.CurrentStyle().Colors()
	rgba := make([]renderer.RGBA, len(colors))
	for i, c := range colors {
		rgba[i] = renderer.RGBA{R: c.X, G: c.Y, B: c.Z, A: c.W}
	}
	return rgba
}

func (e *Engine) SetStyleColors(rgba []renderer.RGBA) {
	style := imgui.CurrentStyle()
	colors := style.Colors()
	for i := range min(len(colors), len(rgba)) {
		c := rgba[i]
		colors[i] = imgui.Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}
	}
	style.SetColors(&colors)
}

// FontAtlas returns the atlas pixels as RGBA8. imgui's default Alpha8
// atlases are expanded to white with the atlas value in alpha.
func (e *Engine) FontAtlas() (renderer.FontAtlas, error) {
	texData := imgui.CurrentIO().Fonts().TexData()
	if texData == nil {
		return renderer.FontAtlas{}, ErrNoFontAtlas
	}
	w, h, bpp := int(texData.Width()), int(texData.Height()), int(texData.BytesPerPixel())
	if w <= 0 || h <= 0 || texData.Pixels() == 0 {
		return renderer.FontAtlas{}, ErrNoFontAtlas
	}
	e.lg.Infof("Fonts texture: %dx%d, %d bpp, %.1f MB", w, h, bpp, float32(w*h*bpp)/(1024*1024))

	// texData.Pixels() returns a C pointer as uintptr; use unsafe.Add to
	// convert it without triggering go vet's uintptr-to-Pointer check.
	pixelsPtr := unsafe.Add(nil, texData.Pixels())

	atlas := renderer.FontAtlas{Width: w, Height: h}
	switch bpp {
	case 4:
		atlas.Pixels = append([]byte(nil), unsafe.Slice((*uint8)(pixelsPtr), 4*w*h)...)
	case 1:
		atlas.Pixels = alpha8ToRGBA(unsafe.Slice((*uint8)(pixelsPtr), w*h))
	default:
		return renderer.FontAtlas{}, fmt.Errorf("unsupported font atlas format: %d bytes per pixel", bpp)
	}
	return atlas, nil
}

func alpha8ToRGBA(alpha8 []uint8) []uint8 {
	rgba32 := make([]uint8, 4*len(alpha8))
	for i, a := range alpha8 {
		rgba32[i*4+0] = 255
		rgba32[i*4+1] = 255
		rgba32[i*4+2] = 255
		rgba32[i*4+3] = a
	}
	return rgba32
}

func (e *Engine) SetFontTexture(id renderer.TextureID) {
	texData := imgui.CurrentIO().Fonts().TexData()
	texData.SetTexID(imgui.TextureID(id))
	texData.SetStatus(imgui.TextureStatusOK)
	e.lg.Infof("font atlas is %s", id)
}
