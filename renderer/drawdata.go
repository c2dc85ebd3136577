// renderer/drawdata.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"unsafe"
)

// DrawVertex is a single GUI vertex. Its memory layout matches imgui's
// ImDrawVert so that vertex buffers can be uploaded without conversion.
type DrawVertex struct {
	Pos [2]float32
	UV  [2]float32
	Col [4]uint8 // RGBA
}

const (
	DrawVertexSize = uint32(unsafe.Sizeof(DrawVertex{}))

	drawVertexPosOffset = uint32(unsafe.Offsetof(DrawVertex{}.Pos))
	drawVertexUVOffset  = uint32(unsafe.Offsetof(DrawVertex{}.UV))
	drawVertexColOffset = uint32(unsafe.Offsetof(DrawVertex{}.Col))
)

type DrawCommandKind int

const (
	// DrawCommandElements draws ElemCount indices with a texture and
	// clip rectangle.
	DrawCommandElements DrawCommandKind = iota
	// DrawCommandCallback is a user callback; the renderer does not
	// support these.
	DrawCommandCallback
)

func (k DrawCommandKind) String() string {
	switch k {
	case DrawCommandElements:
		return "elements"
	case DrawCommandCallback:
		return "callback"
	default:
		return fmt.Sprintf("DrawCommandKind(%d)", int(k))
	}
}

type DrawCommand struct {
	Kind      DrawCommandKind
	ElemCount uint32
	// ClipRect is (x0, y0, x1, y1) in the frame's display coordinates,
	// with y increasing downward.
	ClipRect  [4]float32
	TextureID TextureID
}

// DrawList holds the commands for one imgui window along with the vertex
// and index buffers they draw from. Each command's indices immediately
// follow those of the previous command.
type DrawList struct {
	Commands  []DrawCommand
	VtxBuffer []DrawVertex
	IdxBuffer []uint16
}

// FrameDrawData is everything needed to render a frame. It is produced
// by the GUI engine and is not modified by the renderer.
type FrameDrawData struct {
	DisplayPos       [2]float32
	DisplaySize      [2]float32
	FramebufferScale [2]float32
	DrawLists        []DrawList
}

// FramebufferSize returns the size of the framebuffer in pixels.
func (fd *FrameDrawData) FramebufferSize() [2]float32 {
	return [2]float32{fd.DisplaySize[0] * fd.FramebufferScale[0], fd.DisplaySize[1] * fd.FramebufferScale[1]}
}
