// imguidata/drawdata.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package imguidata

import (
	"unsafe"

	"github.com/mmp/imrender/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
)

// FrameDrawData converts the draw data from the most recent call to
// imgui.Render. Vertex and index buffers refer directly to imgui's
// memory, so the result is only valid until the next imgui.NewFrame.
func (e *Engine) FrameDrawData() *renderer.FrameDrawData {
	drawData := imgui.CurrentDrawData()
	if drawData == nil {
		return &renderer.FrameDrawData{}
	}

	pos, size, scale := drawData.DisplayPos(), drawData.DisplaySize(), drawData.FramebufferScale()
	fd := &renderer.FrameDrawData{
		DisplayPos:       [2]float32{pos.X, pos.Y},
		DisplaySize:      [2]float32{size.X, size.Y},
		FramebufferScale: [2]float32{scale.X, scale.Y},
	}

	for _, commandList := range drawData.CommandLists() {
		vertexBufferPtr, vertexBufferSizeBytes := commandList.GetVertexBuffer()
		indexBufferPtr, indexBufferSizeBytes := commandList.GetIndexBuffer()

		dl := renderer.DrawList{
			VtxBuffer: unsafe.Slice((*renderer.DrawVertex)(vertexBufferPtr),
				vertexBufferSizeBytes/int(renderer.DrawVertexSize)),
			IdxBuffer: unsafe.Slice((*uint16)(indexBufferPtr), indexBufferSizeBytes/2),
		}

		var idx uint32
		for _, command := range commandList.Commands() {
			if command.HasUserCallback() {
				dl.Commands = append(dl.Commands, renderer.DrawCommand{Kind: renderer.DrawCommandCallback})
				continue
			}
			// Indices are consumed in order; imgui only reports other
			// offsets to backends that advertise vertex offset support.
			if uint32(command.IdxOffset()) != idx {
				e.lg.Warnf("imgui draw command index offset %d, expected %d", command.IdxOffset(), idx)
			}

			cr := command.ClipRect()
			dl.Commands = append(dl.Commands, renderer.DrawCommand{
				Kind:      renderer.DrawCommandElements,
				ElemCount: uint32(command.ElemCount()),
				ClipRect:  [4]float32{cr.X, cr.Y, cr.Z, cr.W},
				TextureID: renderer.TextureID(command.TexID()),
			})
			idx += uint32(command.ElemCount())
		}
		fd.DrawLists = append(fd.DrawLists, dl)
	}
	return fd
}
