// gpu/device.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package gpu defines the small set of graphics capabilities the imgui
// renderer needs: shader and pipeline creation, images, views, samplers,
// buffers, vertex input layouts, fixed-function state binding, and
// indexed drawing. Concrete graphics APIs implement Device; see
// gpu/ogl for OpenGL 4.5 and gpu/gputest for a recording implementation
// used in tests.
package gpu

// Device is the interface to a graphics API. All calls are issued from a
// single goroutine and are treated as completing in program order.
//
// Creation methods return a *Error whose Kind is ErrCreationFailed (or
// ErrCompileFailed/ErrLinkFailed for shaders and pipelines) when the
// underlying API rejects the request. Methods that take handles return
// an *Error with Kind ErrInvalidHandle if a handle was never created or
// has already been deleted.
type Device interface {
	CreateShader(stage ShaderStage, source []byte) (Shader, error)
	DeleteShader(s Shader)
	CreateGraphicsPipeline(desc VertexPipelineDesc) (Pipeline, error)
	DeletePipeline(p Pipeline)

	CreateImage(desc ImageDesc) (Image, error)
	DeleteImage(img Image)
	CopyHostToImage(data []byte, img Image, region HostImageCopy) error
	CreateImageView(img Image, desc ImageViewDesc) (ImageView, error)
	DeleteImageView(view ImageView)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	DeleteSampler(s Sampler)

	CreateBufferFromHost(data []byte, flags MemoryFlags) (Buffer, error)
	DeleteBuffer(b Buffer)
	CreateVertexArray(attributes []VertexAttributeDesc) (VertexArray, error)
	DeleteVertexArray(va VertexArray)

	// SetObjectName attaches a debugging label to the object; it is
	// purely informational and may be a no-op.
	SetObjectName(obj Object, name string)

	BindPipeline(p Pipeline) error
	BindVertexArray(va VertexArray) error
	BindIndexBuffer(va VertexArray, b Buffer) error
	BindVertexBuffers(va VertexArray, first uint32, views []VertexBufferView) error
	BindColorBlendState(state ColorBlend)
	BindUniformConstants(p Pipeline, first uint32, constants []Constant) error
	BindImageViews(first uint32, views []ImageView) error
	BindSamplers(first uint32, samplers []Sampler) error
	SetViewport(first uint32, viewports []Viewport)
	SetScissor(first uint32, scissors []Region)

	// DrawIndexed draws the primitives given by the indices in the
	// half-open range of the bound index buffer, for the given instances,
	// adding baseVertex to each index.
	DrawIndexed(prim Primitive, indexType IndexType, indices Range, instances Range, baseVertex int32) error
}
