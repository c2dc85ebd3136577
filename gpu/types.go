// gpu/types.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"fmt"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////
// Handles

// Handles are opaque object names issued by a Device; zero is never a
// valid handle.
type (
	Shader      uint32
	Pipeline    uint32
	Image       uint32
	ImageView   uint32
	Sampler     uint32
	Buffer      uint32
	VertexArray uint32
)

type ObjectType int

const (
	ObjectShader ObjectType = iota
	ObjectPipeline
	ObjectImage
	ObjectImageView
	ObjectSampler
	ObjectBuffer
	ObjectVertexArray
)

func (t ObjectType) String() string {
	switch t {
	case ObjectShader:
		return "shader"
	case ObjectPipeline:
		return "pipeline"
	case ObjectImage:
		return "image"
	case ObjectImageView:
		return "image view"
	case ObjectSampler:
		return "sampler"
	case ObjectBuffer:
		return "buffer"
	case ObjectVertexArray:
		return "vertex array"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

// Object is implemented by all of the handle types so that they can be
// passed to Device.SetObjectName.
type Object interface {
	ObjectType() ObjectType
	Handle() uint32
}

func (s Shader) ObjectType() ObjectType      { return ObjectShader }
func (s Shader) Handle() uint32              { return uint32(s) }
func (p Pipeline) ObjectType() ObjectType    { return ObjectPipeline }
func (p Pipeline) Handle() uint32            { return uint32(p) }
func (i Image) ObjectType() ObjectType       { return ObjectImage }
func (i Image) Handle() uint32               { return uint32(i) }
func (v ImageView) ObjectType() ObjectType   { return ObjectImageView }
func (v ImageView) Handle() uint32           { return uint32(v) }
func (s Sampler) ObjectType() ObjectType     { return ObjectSampler }
func (s Sampler) Handle() uint32             { return uint32(s) }
func (b Buffer) ObjectType() ObjectType      { return ObjectBuffer }
func (b Buffer) Handle() uint32              { return uint32(b) }
func (v VertexArray) ObjectType() ObjectType { return ObjectVertexArray }
func (v VertexArray) Handle() uint32         { return uint32(v) }

// Range is a half-open [Start, End) range.
type Range struct {
	Start, End uint32
}

func (r Range) Count() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

///////////////////////////////////////////////////////////////////////////
// Shaders and pipelines

type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}

// VertexPipelineDesc gives the shaders to link into a graphics pipeline.
// A zero FragmentShader means no fragment stage.
type VertexPipelineDesc struct {
	VertexShader   Shader
	FragmentShader Shader
}

// Constant is a value that can be bound to a pipeline's uniform
// constant slots: one of Mat4x4, F32, or U32.
type Constant interface {
	isConstant()
}

// Mat4x4 is a column-major 4x4 matrix.
type Mat4x4 [4][4]float32

type F32 float32

type U32 uint32

func (Mat4x4) isConstant() {}
func (F32) isConstant()    {}
func (U32) isConstant()    {}

///////////////////////////////////////////////////////////////////////////
// Images and samplers

type Format int

const (
	FormatR8G8B8A8Unorm Format = iota
	FormatR8G8B8A8SRGB
)

func (f Format) String() string {
	switch f {
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8SRGB:
		return "R8G8B8A8_SRGB"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ImageDesc describes a 2D image.
type ImageDesc struct {
	Width, Height uint32
	Layers        uint32
	Samples       uint32
	Format        Format
	Levels        uint32
}

type ImageViewType int

const (
	ImageViewType2D ImageViewType = iota
)

type SubresourceRange struct {
	Layers Range
	Levels Range
}

type ImageViewDesc struct {
	Type   ImageViewType
	Format Format
	Range  SubresourceRange
}

type BaseFormat int

const (
	BaseFormatRGBA BaseFormat = iota
)

type FormatLayout int

const (
	FormatLayoutU8 FormatLayout = iota
)

// MemoryLayout describes how host pixel data is laid out: RowLength and
// ImageHeight are in pixels and Alignment is the row alignment in bytes.
type MemoryLayout struct {
	BaseFormat   BaseFormat
	FormatLayout FormatLayout
	RowLength    uint32
	ImageHeight  uint32
	Alignment    uint32
}

type SubresourceLayers struct {
	Level  uint32
	Layers Range
}

type Offset struct {
	X, Y, Z int32
}

type Extent struct {
	Width, Height, Depth uint32
}

// HostImageCopy specifies where host memory ends up in an image.
type HostImageCopy struct {
	HostLayout       MemoryLayout
	ImageSubresource SubresourceLayers
	ImageOffset      Offset
	ImageExtent      Extent
}

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

type SamplerAddress int

const (
	SamplerAddressRepeat SamplerAddress = iota
	SamplerAddressMirrorRepeat
	SamplerAddressClampEdge
	SamplerAddressClampBorder
)

type SamplerDesc struct {
	MinFilter, MagFilter Filter
	// MipMap is the filter used between mip levels; nil disables
	// mipmapping.
	MipMap      *Filter
	Address     [3]SamplerAddress
	LodBias     float32
	Lod         [2]float32
	BorderColor [4]float32
}

///////////////////////////////////////////////////////////////////////////
// Buffers and vertex input

type MemoryFlags uint32

const MemoryFlagsNone MemoryFlags = 0

const (
	MemoryFlagCPUMapRead MemoryFlags = 1 << iota
	MemoryFlagCPUMapWrite
	MemoryFlagDynamic
)

type VertexFormat int

const (
	VertexFormatXY32Float VertexFormat = iota
	VertexFormatXYZW8Unorm
)

type VertexAttributeDesc struct {
	Location uint32
	Binding  uint32
	Format   VertexFormat
	Offset   uint32
}

type InputRate int

const (
	InputRateVertex InputRate = iota
	InputRateInstance
)

type VertexBufferView struct {
	Buffer    Buffer
	Offset    uint64
	Stride    uint32
	InputRate InputRate
}

type IndexType int

const (
	IndexTypeU16 IndexType = iota
	IndexTypeU32
)

// Size returns the size of an index in bytes.
func (t IndexType) Size() int {
	if t == IndexTypeU32 {
		return 4
	}
	return 2
}

type Primitive int

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveLines
	PrimitivePoints
)

///////////////////////////////////////////////////////////////////////////
// Fixed-function state

type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
)

type BlendChannel struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Op        BlendOp
}

type ColorBlendAttachment struct {
	BlendEnable bool
	Color       BlendChannel
	Alpha       BlendChannel
}

type ColorBlend struct {
	Attachments []ColorBlendAttachment
}

type Viewport struct {
	X, Y, W, H float32
	N, F       float32
}

// Region is a rectangle in framebuffer pixels with a bottom-left
// origin.
type Region struct {
	X, Y, W, H int32
}

// AsBytes returns the memory backing the slice as a byte slice, without
// copying.
func AsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var t T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(t)))
}
