// gpu/ogl/commands.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ogl

import (
	"fmt"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/math"
	"github.com/mmp/imrender/util"

	"github.com/go-gl/gl/v4.5-core/gl"
)

func (d *Device) BindPipeline(p gpu.Pipeline) error {
	if err := d.check("BindPipeline", p); err != nil {
		return err
	}
	gl.UseProgram(uint32(p))
	return nil
}

func (d *Device) BindVertexArray(va gpu.VertexArray) error {
	if err := d.check("BindVertexArray", va); err != nil {
		return err
	}
	gl.BindVertexArray(uint32(va))
	return nil
}

func (d *Device) BindIndexBuffer(va gpu.VertexArray, b gpu.Buffer) error {
	if err := d.check("BindIndexBuffer", va, b); err != nil {
		return err
	}
	gl.VertexArrayElementBuffer(uint32(va), uint32(b))
	return nil
}

func (d *Device) BindVertexBuffers(va gpu.VertexArray, first uint32, views []gpu.VertexBufferView) error {
	if err := d.check("BindVertexBuffers", va); err != nil {
		return err
	}
	for _, v := range views {
		if err := d.check("BindVertexBuffers", v.Buffer); err != nil {
			return err
		}
	}

	for i, v := range views {
		binding := first + uint32(i)
		gl.VertexArrayVertexBuffer(uint32(va), binding, uint32(v.Buffer), int(v.Offset), int32(v.Stride))
		gl.VertexArrayBindingDivisor(uint32(va), binding, util.Select[uint32](v.InputRate == gpu.InputRateInstance, 1, 0))
	}
	return nil
}

func glBlendFactor(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.BlendFactorZero:
		return gl.ZERO
	case gpu.BlendFactorOne:
		return gl.ONE
	case gpu.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gpu.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gpu.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gpu.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE
	}
}

func glBlendOp(op gpu.BlendOp) uint32 {
	if op == gpu.BlendOpSubtract {
		return gl.FUNC_SUBTRACT
	}
	return gl.FUNC_ADD
}

func (d *Device) BindColorBlendState(state gpu.ColorBlend) {
	for i, a := range state.Attachments {
		buf := uint32(i)
		if !a.BlendEnable {
			gl.Disablei(gl.BLEND, buf)
			continue
		}
		gl.Enablei(gl.BLEND, buf)
		gl.BlendFuncSeparatei(buf, glBlendFactor(a.Color.SrcFactor), glBlendFactor(a.Color.DstFactor),
			glBlendFactor(a.Alpha.SrcFactor), glBlendFactor(a.Alpha.DstFactor))
		gl.BlendEquationSeparatei(buf, glBlendOp(a.Color.Op), glBlendOp(a.Alpha.Op))
	}
}

// BindUniformConstants sets the uniforms at consecutive locations
// starting at first.
func (d *Device) BindUniformConstants(p gpu.Pipeline, first uint32, constants []gpu.Constant) error {
	if err := d.check("BindUniformConstants", p); err != nil {
		return err
	}
	if p == 0 {
		return gpu.NewError("BindUniformConstants", gpu.ErrInvalidHandle, "pipeline 0")
	}

	for i, c := range constants {
		loc := int32(first) + int32(i)
		switch c := c.(type) {
		case gpu.Mat4x4:
			f := math.Matrix4(c).Floats()
			gl.ProgramUniformMatrix4fv(uint32(p), loc, 1, false, &f[0])
		case gpu.F32:
			gl.ProgramUniform1f(uint32(p), loc, float32(c))
		case gpu.U32:
			gl.ProgramUniform1ui(uint32(p), loc, uint32(c))
		default:
			return gpu.NewError("BindUniformConstants", gpu.ErrInvalidArgument, fmt.Sprintf("constant %T", c))
		}
	}
	return nil
}

// BindImageViews binds the views to consecutive texture units starting
// at first.
func (d *Device) BindImageViews(first uint32, views []gpu.ImageView) error {
	for _, v := range views {
		if err := d.check("BindImageViews", v); err != nil {
			return err
		}
	}
	for i, v := range views {
		gl.BindTextureUnit(first+uint32(i), uint32(v))
	}
	return nil
}

func (d *Device) BindSamplers(first uint32, samplers []gpu.Sampler) error {
	for _, s := range samplers {
		if err := d.check("BindSamplers", s); err != nil {
			return err
		}
	}
	for i, s := range samplers {
		gl.BindSampler(first+uint32(i), uint32(s))
	}
	return nil
}

func (d *Device) SetViewport(first uint32, viewports []gpu.Viewport) {
	for i, vp := range viewports {
		idx := first + uint32(i)
		gl.ViewportIndexedf(idx, vp.X, vp.Y, vp.W, vp.H)
		gl.DepthRangeIndexed(idx, float64(vp.N), float64(vp.F))
	}
}

func (d *Device) SetScissor(first uint32, scissors []gpu.Region) {
	if !d.scissorEnabled {
		gl.Enable(gl.SCISSOR_TEST)
		d.scissorEnabled = true
	}
	for i, r := range scissors {
		gl.ScissorIndexed(first+uint32(i), r.X, r.Y, r.W, r.H)
	}
}

func (d *Device) DrawIndexed(prim gpu.Primitive, indexType gpu.IndexType, indices gpu.Range,
	instances gpu.Range, baseVertex int32) error {
	var mode uint32
	switch prim {
	case gpu.PrimitiveTriangles:
		mode = gl.TRIANGLES
	case gpu.PrimitiveLines:
		mode = gl.LINES
	case gpu.PrimitivePoints:
		mode = gl.POINTS
	default:
		return gpu.NewError("DrawIndexed", gpu.ErrInvalidArgument, fmt.Sprintf("primitive %d", prim))
	}
	xtype := util.Select[uint32](indexType == gpu.IndexTypeU32, gl.UNSIGNED_INT, gl.UNSIGNED_SHORT)

	if indices.Count() == 0 || instances.Count() == 0 {
		return nil
	}
	offset := gl.PtrOffset(int(indices.Start) * indexType.Size())
	gl.DrawElementsInstancedBaseVertexBaseInstance(mode, int32(indices.Count()), xtype, offset,
		int32(instances.Count()), baseVertex, instances.Start)

	return glError("DrawIndexed", nil)
}

// Clear fills the whole default framebuffer with the given color. The
// scissor test is disabled first so that a previous frame's last
// scissor rectangle doesn't limit the clear.
func (d *Device) Clear(rgba [4]float32, fbSize [2]int) {
	if d.scissorEnabled {
		gl.Disable(gl.SCISSOR_TEST)
		d.scissorEnabled = false
	}
	gl.Viewport(0, 0, int32(fbSize[0]), int32(fbSize[1]))
	gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
