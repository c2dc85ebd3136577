// gpu/ogl/resources.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ogl

import (
	"fmt"
	"unsafe"

	"github.com/mmp/imrender/gpu"

	"github.com/go-gl/gl/v4.5-core/gl"
)

///////////////////////////////////////////////////////////////////////////
// Shaders and pipelines

func (d *Device) CreateShader(stage gpu.ShaderStage, source []byte) (gpu.Shader, error) {
	var shaderType uint32
	switch stage {
	case gpu.ShaderStageVertex:
		shaderType = gl.VERTEX_SHADER
	case gpu.ShaderStageFragment:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, gpu.NewError("CreateShader", gpu.ErrInvalidArgument, stage.String())
	}

	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, glError("CreateShader", gpu.ErrCreationFailed)
	}
	csource, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, gpu.NewError("CreateShader", gpu.ErrCompileFailed,
			fmt.Sprintf("%s shader: %s", stage, gl.GoStr(&log[0])))
	}

	d.createdObject(gpu.Shader(shader), 0)
	return gpu.Shader(shader), nil
}

func (d *Device) DeleteShader(s gpu.Shader) {
	if d.deletedObject(gpu.ObjectShader, uint32(s)) {
		gl.DeleteShader(uint32(s))
	}
}

func (d *Device) CreateGraphicsPipeline(desc gpu.VertexPipelineDesc) (gpu.Pipeline, error) {
	if desc.VertexShader == 0 {
		return 0, gpu.NewError("CreateGraphicsPipeline", gpu.ErrInvalidArgument, "no vertex shader")
	}
	if err := d.check("CreateGraphicsPipeline", desc.VertexShader, desc.FragmentShader); err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	if program == 0 {
		return 0, glError("CreateGraphicsPipeline", gpu.ErrCreationFailed)
	}
	gl.AttachShader(program, uint32(desc.VertexShader))
	if desc.FragmentShader != 0 {
		gl.AttachShader(program, uint32(desc.FragmentShader))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, gpu.NewError("CreateGraphicsPipeline", gpu.ErrLinkFailed, gl.GoStr(&log[0]))
	}

	// The linked program keeps the shader code; detaching lets the
	// shaders be deleted independently.
	gl.DetachShader(program, uint32(desc.VertexShader))
	if desc.FragmentShader != 0 {
		gl.DetachShader(program, uint32(desc.FragmentShader))
	}

	d.createdObject(gpu.Pipeline(program), 0)
	return gpu.Pipeline(program), nil
}

func (d *Device) DeletePipeline(p gpu.Pipeline) {
	if d.deletedObject(gpu.ObjectPipeline, uint32(p)) {
		gl.DeleteProgram(uint32(p))
	}
}

///////////////////////////////////////////////////////////////////////////
// Images

func internalFormat(f gpu.Format) (uint32, error) {
	switch f {
	case gpu.FormatR8G8B8A8Unorm:
		return gl.RGBA8, nil
	case gpu.FormatR8G8B8A8SRGB:
		return gl.SRGB8_ALPHA8, nil
	default:
		return 0, fmt.Errorf("unsupported format %s", f)
	}
}

func imageTarget(layers uint32) uint32 {
	if layers > 1 {
		return gl.TEXTURE_2D_ARRAY
	}
	return gl.TEXTURE_2D
}

func (d *Device) CreateImage(desc gpu.ImageDesc) (gpu.Image, error) {
	ifmt, err := internalFormat(desc.Format)
	if err != nil {
		return 0, gpu.NewError("CreateImage", gpu.ErrInvalidArgument, err.Error())
	}
	if desc.Samples > 1 {
		return 0, gpu.NewError("CreateImage", gpu.ErrInvalidArgument, "multisampled images are not supported")
	}
	if desc.Width == 0 || desc.Height == 0 || desc.Layers == 0 || desc.Levels == 0 {
		return 0, gpu.NewError("CreateImage", gpu.ErrInvalidArgument, fmt.Sprintf("%+v", desc))
	}

	var tex uint32
	gl.CreateTextures(imageTarget(desc.Layers), 1, &tex)
	if desc.Layers > 1 {
		gl.TextureStorage3D(tex, int32(desc.Levels), ifmt, int32(desc.Width), int32(desc.Height), int32(desc.Layers))
	} else {
		gl.TextureStorage2D(tex, int32(desc.Levels), ifmt, int32(desc.Width), int32(desc.Height))
	}
	if err := glError("CreateImage", gpu.ErrCreationFailed); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}

	bytes := 0
	for level := range desc.Levels {
		bytes += 4 * int(max(desc.Width>>level, 1)) * int(max(desc.Height>>level, 1)) * int(desc.Layers)
	}
	d.createdObject(gpu.Image(tex), bytes)
	return gpu.Image(tex), nil
}

func (d *Device) DeleteImage(img gpu.Image) {
	if d.deletedObject(gpu.ObjectImage, uint32(img)) {
		tex := uint32(img)
		gl.DeleteTextures(1, &tex)
	}
}

func (d *Device) CopyHostToImage(data []byte, img gpu.Image, region gpu.HostImageCopy) error {
	if img == 0 {
		return gpu.NewError("CopyHostToImage", gpu.ErrInvalidHandle, "image 0")
	}
	if err := d.check("CopyHostToImage", img); err != nil {
		return err
	}

	layout := region.HostLayout
	if layout.BaseFormat != gpu.BaseFormatRGBA || layout.FormatLayout != gpu.FormatLayoutU8 {
		return gpu.NewError("CopyHostToImage", gpu.ErrInvalidArgument, "only RGBA8 host data is supported")
	}
	ext := region.ImageExtent
	rowLength := max(layout.RowLength, ext.Width)
	imageHeight := max(layout.ImageHeight, ext.Height)
	depth := max(ext.Depth, region.ImageSubresource.Layers.Count())
	if need := 4 * int(rowLength) * int(imageHeight) * int(max(depth, 1)); len(data) < need {
		return gpu.NewError("CopyHostToImage", gpu.ErrInvalidArgument,
			fmt.Sprintf("%d bytes of host data, need %d", len(data), need))
	}

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(layout.RowLength))
	gl.PixelStorei(gl.UNPACK_IMAGE_HEIGHT, int32(layout.ImageHeight))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, int32(max(layout.Alignment, 1)))

	tex, level := uint32(img), int32(region.ImageSubresource.Level)
	off := region.ImageOffset
	if layers := region.ImageSubresource.Layers; layers.Count() > 1 || layers.Start > 0 {
		gl.TextureSubImage3D(tex, level, off.X, off.Y, int32(layers.Start), int32(ext.Width), int32(ext.Height),
			int32(layers.Count()), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&data[0]))
	} else {
		gl.TextureSubImage2D(tex, level, off.X, off.Y, int32(ext.Width), int32(ext.Height), gl.RGBA,
			gl.UNSIGNED_BYTE, unsafe.Pointer(&data[0]))
	}

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_IMAGE_HEIGHT, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	return glError("CopyHostToImage", nil)
}

func (d *Device) CreateImageView(img gpu.Image, desc gpu.ImageViewDesc) (gpu.ImageView, error) {
	if err := d.check("CreateImageView", img); err != nil {
		return 0, err
	}
	if img == 0 || desc.Type != gpu.ImageViewType2D {
		return 0, gpu.NewError("CreateImageView", gpu.ErrInvalidArgument, fmt.Sprintf("image %d type %d", img, desc.Type))
	}
	ifmt, err := internalFormat(desc.Format)
	if err != nil {
		return 0, gpu.NewError("CreateImageView", gpu.ErrInvalidArgument, err.Error())
	}

	// glTextureView requires a name that has never been bound, so
	// GenTextures rather than CreateTextures.
	var view uint32
	gl.GenTextures(1, &view)
	r := desc.Range
	gl.TextureView(view, imageTarget(r.Layers.Count()), uint32(img), ifmt, r.Levels.Start, r.Levels.Count(),
		r.Layers.Start, r.Layers.Count())
	if err := glError("CreateImageView", gpu.ErrCreationFailed); err != nil {
		gl.DeleteTextures(1, &view)
		return 0, err
	}

	d.createdObject(gpu.ImageView(view), 0)
	return gpu.ImageView(view), nil
}

func (d *Device) DeleteImageView(view gpu.ImageView) {
	if d.deletedObject(gpu.ObjectImageView, uint32(view)) {
		tex := uint32(view)
		gl.DeleteTextures(1, &tex)
	}
}

///////////////////////////////////////////////////////////////////////////
// Samplers

func glFilter(f gpu.Filter) int32 {
	if f == gpu.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glMinFilter(minFilter gpu.Filter, mip *gpu.Filter) int32 {
	if mip == nil {
		return glFilter(minFilter)
	}
	switch {
	case minFilter == gpu.FilterNearest && *mip == gpu.FilterNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case minFilter == gpu.FilterNearest:
		return gl.NEAREST_MIPMAP_LINEAR
	case *mip == gpu.FilterNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	default:
		return gl.LINEAR_MIPMAP_LINEAR
	}
}

func glWrap(a gpu.SamplerAddress) int32 {
	switch a {
	case gpu.SamplerAddressMirrorRepeat:
		return gl.MIRRORED_REPEAT
	case gpu.SamplerAddressClampEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.SamplerAddressClampBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	var s uint32
	gl.CreateSamplers(1, &s)
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, glMinFilter(desc.MinFilter, desc.MipMap))
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, glWrap(desc.Address[0]))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, glWrap(desc.Address[1]))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_R, glWrap(desc.Address[2]))
	gl.SamplerParameterf(s, gl.TEXTURE_LOD_BIAS, desc.LodBias)
	gl.SamplerParameterf(s, gl.TEXTURE_MIN_LOD, desc.Lod[0])
	gl.SamplerParameterf(s, gl.TEXTURE_MAX_LOD, desc.Lod[1])
	gl.SamplerParameterfv(s, gl.TEXTURE_BORDER_COLOR, &desc.BorderColor[0])
	if err := glError("CreateSampler", gpu.ErrCreationFailed); err != nil {
		gl.DeleteSamplers(1, &s)
		return 0, err
	}

	d.createdObject(gpu.Sampler(s), 0)
	return gpu.Sampler(s), nil
}

func (d *Device) DeleteSampler(s gpu.Sampler) {
	if d.deletedObject(gpu.ObjectSampler, uint32(s)) {
		id := uint32(s)
		gl.DeleteSamplers(1, &id)
	}
}

///////////////////////////////////////////////////////////////////////////
// Buffers and vertex arrays

func (d *Device) CreateBufferFromHost(data []byte, flags gpu.MemoryFlags) (gpu.Buffer, error) {
	var glFlags uint32
	if flags&gpu.MemoryFlagCPUMapRead != 0 {
		glFlags |= gl.MAP_READ_BIT
	}
	if flags&gpu.MemoryFlagCPUMapWrite != 0 {
		glFlags |= gl.MAP_WRITE_BIT
	}
	if flags&gpu.MemoryFlagDynamic != 0 {
		glFlags |= gl.DYNAMIC_STORAGE_BIT
	}

	var b uint32
	gl.CreateBuffers(1, &b)
	// Zero-sized buffer storage is an error in OpenGL.
	if len(data) == 0 {
		gl.NamedBufferStorage(b, 1, nil, glFlags)
	} else {
		gl.NamedBufferStorage(b, len(data), unsafe.Pointer(&data[0]), glFlags)
	}
	if err := glError("CreateBufferFromHost", gpu.ErrCreationFailed); err != nil {
		gl.DeleteBuffers(1, &b)
		return 0, err
	}

	d.createdObject(gpu.Buffer(b), len(data))
	return gpu.Buffer(b), nil
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if d.deletedObject(gpu.ObjectBuffer, uint32(b)) {
		id := uint32(b)
		gl.DeleteBuffers(1, &id)
	}
}

func (d *Device) CreateVertexArray(attributes []gpu.VertexAttributeDesc) (gpu.VertexArray, error) {
	var va uint32
	gl.CreateVertexArrays(1, &va)
	for _, a := range attributes {
		gl.EnableVertexArrayAttrib(va, a.Location)
		switch a.Format {
		case gpu.VertexFormatXY32Float:
			gl.VertexArrayAttribFormat(va, a.Location, 2, gl.FLOAT, false, a.Offset)
		case gpu.VertexFormatXYZW8Unorm:
			gl.VertexArrayAttribFormat(va, a.Location, 4, gl.UNSIGNED_BYTE, true, a.Offset)
		default:
			gl.DeleteVertexArrays(1, &va)
			return 0, gpu.NewError("CreateVertexArray", gpu.ErrInvalidArgument,
				fmt.Sprintf("attribute %d: unknown format %d", a.Location, a.Format))
		}
		gl.VertexArrayAttribBinding(va, a.Location, a.Binding)
	}
	if err := glError("CreateVertexArray", gpu.ErrCreationFailed); err != nil {
		gl.DeleteVertexArrays(1, &va)
		return 0, err
	}

	d.createdObject(gpu.VertexArray(va), 0)
	return gpu.VertexArray(va), nil
}

func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	if d.deletedObject(gpu.ObjectVertexArray, uint32(va)) {
		id := uint32(va)
		gl.DeleteVertexArrays(1, &id)
	}
}
