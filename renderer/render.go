// renderer/render.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/math"
)

// Standard non-premultiplied alpha blending for color; alpha is summed.
var guiBlendState = gpu.ColorBlend{
	Attachments: []gpu.ColorBlendAttachment{{
		BlendEnable: true,
		Color: gpu.BlendChannel{
			SrcFactor: gpu.BlendFactorSrcAlpha,
			DstFactor: gpu.BlendFactorOneMinusSrcAlpha,
			Op:        gpu.BlendOpAdd,
		},
		Alpha: gpu.BlendChannel{
			SrcFactor: gpu.BlendFactorOne,
			DstFactor: gpu.BlendFactorOne,
			Op:        gpu.BlendOpAdd,
		},
	}},
}

// projection returns the matrix that maps the display rectangle to
// clip space with y flipped.
func projection(pos, size [2]float32) math.Matrix4 {
	return math.Ortho4x4(pos[0], pos[0]+size[0], pos[1]+size[1], pos[1], -1, 1)
}

// framebufferClip transforms a clip rectangle in display coordinates to
// framebuffer pixels, still with a top-left origin.
func framebufferClip(rect [4]float32, displayPos, fbScale [2]float32) math.Extent2D {
	return math.Extent2DFromRect(rect).Remap(displayPos, fbScale)
}

// culled reports whether the clip rectangle lies entirely outside of the
// framebuffer.
func culled(clip math.Extent2D, fbSize [2]float32) bool {
	return clip.P0[0] >= fbSize[0] || clip.P0[1] >= fbSize[1] || clip.P1[0] < 0 || clip.P1[1] < 0
}

// scissorRegion converts a framebuffer clip rectangle to the
// bottom-left origin convention used for scissoring.
func scissorRegion(clip math.Extent2D, fbHeight float32) gpu.Region {
	return gpu.Region{
		X: math.Saturate32(clip.P0[0]),
		Y: math.Saturate32(fbHeight - clip.P1[1]),
		W: math.Saturate32(math.Ceil(math.Abs(clip.P1[0] - clip.P0[0]))),
		H: math.Saturate32(math.Ceil(math.Abs(clip.P1[1] - clip.P0[1]))),
	}
}

// Render draws the frame. Frames with an empty framebuffer are skipped.
// The first error from the device, or a draw command that cannot be
// drawn, stops rendering and is returned; commands already issued are
// not undone.
func (r *Renderer) Render(dd *FrameDrawData) error {
	r.stats = RendererStats{}
	if dd == nil {
		return nil
	}

	fbSize := dd.FramebufferSize()
	if fbSize[0] <= 0 || fbSize[1] <= 0 {
		return nil
	}

	transform := projection(dd.DisplayPos, dd.DisplaySize)
	for i := range dd.DrawLists {
		if err := r.renderDrawList(&dd.DrawLists[i], dd, fbSize, transform); err != nil {
			return fmt.Errorf("draw list %d: %w", i, err)
		}
	}

	r.lg.Debug("rendered frame", "stats", r.stats)
	return nil
}

func (r *Renderer) renderDrawList(dl *DrawList, dd *FrameDrawData, fbSize [2]float32, transform math.Matrix4) error {
	if len(dl.Commands) == 0 {
		return nil
	}
	r.stats.nDrawLists++

	vtx := gpu.AsBytes(dl.VtxBuffer)
	vb, err := r.device.CreateBufferFromHost(vtx, gpu.MemoryFlagsNone)
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	defer r.device.DeleteBuffer(vb)

	idx := gpu.AsBytes(dl.IdxBuffer)
	ib, err := r.device.CreateBufferFromHost(idx, gpu.MemoryFlagsNone)
	if err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	defer r.device.DeleteBuffer(ib)

	r.stats.nBuffers += 2
	r.stats.bufferBytes += len(vtx) + len(idx)

	if err := r.device.BindPipeline(r.pipeline); err != nil {
		return err
	}
	if err := r.device.BindVertexArray(r.vertexArray); err != nil {
		return err
	}
	if err := r.device.BindIndexBuffer(r.vertexArray, ib); err != nil {
		return err
	}
	if err := r.device.BindVertexBuffers(r.vertexArray, 0, []gpu.VertexBufferView{{
		Buffer:    vb,
		Offset:    0,
		Stride:    DrawVertexSize,
		InputRate: gpu.InputRateVertex,
	}}); err != nil {
		return err
	}
	r.device.BindColorBlendState(guiBlendState)
	if err := r.device.BindUniformConstants(r.pipeline, 0, []gpu.Constant{gpu.Mat4x4(transform)}); err != nil {
		return err
	}
	r.device.SetViewport(0, []gpu.Viewport{{X: 0, Y: 0, W: fbSize[0], H: fbSize[1], N: 0, F: 1}})

	var indexStart uint32
	for _, cmd := range dl.Commands {
		if cmd.Kind != DrawCommandElements {
			r.lg.Error("unsupported draw command", "kind", cmd.Kind)
			return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Kind)
		}

		clip := framebufferClip(cmd.ClipRect, dd.DisplayPos, dd.FramebufferScale)
		if culled(clip, fbSize) {
			r.stats.nCulled++
		} else {
			tex, ok := r.textures.Get(cmd.TextureID)
			if !ok {
				r.lg.Error("draw command with unregistered texture", "texture", cmd.TextureID)
				return fmt.Errorf("%w: %s", ErrUnregisteredTexture, cmd.TextureID)
			}
			if err := r.device.BindImageViews(0, []gpu.ImageView{tex.View}); err != nil {
				return err
			}
			if err := r.device.BindSamplers(0, []gpu.Sampler{tex.Sampler}); err != nil {
				return err
			}
			r.device.SetScissor(0, []gpu.Region{scissorRegion(clip, fbSize[1])})

			indices := gpu.Range{Start: indexStart, End: indexStart + cmd.ElemCount}
			if err := r.device.DrawIndexed(gpu.PrimitiveTriangles, gpu.IndexTypeU16, indices,
				gpu.Range{Start: 0, End: 1}, 0); err != nil {
				return err
			}
			r.stats.nDrawCalls++
			r.stats.nTriangles += int(cmd.ElemCount / 3)
		}
		indexStart += cmd.ElemCount
	}
	return nil
}
