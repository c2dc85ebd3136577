// renderer/renderer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package renderer draws the output of an immediate-mode GUI using a
// gpu.Device. New performs one-time setup (shaders, pipeline, font
// atlas texture, vertex layout) and Render translates each frame's
// FrameDrawData into scissored, textured, indexed draw calls.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/log"
)

var (
	// ErrUnregisteredTexture is returned when a draw command refers to
	// a texture that is not in the renderer's registry.
	ErrUnregisteredTexture = errors.New("unregistered texture")
	// ErrUnsupportedCommand is returned for draw commands other than
	// DrawCommandElements.
	ErrUnsupportedCommand = errors.New("unsupported draw command")
)

type Config struct {
	// SRGBFramebuffer should be set if the framebuffer rendered to does
	// sRGB encoding; the GUI's style colors are then converted to linear
	// at initialization.
	SRGBFramebuffer bool
	// FontTextureName is the debug label given to the font atlas image.
	FontTextureName string
}

func DefaultConfig() Config {
	return Config{
		SRGBFramebuffer: true,
		FontTextureName: "imgui-texture",
	}
}

// Renderer owns the GPU objects needed to draw GUI frames. It must be
// used from a single goroutine.
type Renderer struct {
	device gpu.Device
	lg     *log.Logger
	config Config

	vertexShader, fragmentShader gpu.Shader
	pipeline                     gpu.Pipeline
	vertexArray                  gpu.VertexArray

	textures    *TextureRegistry
	fontTexture TextureID

	stats RendererStats
}

// New initializes a renderer for the given GUI engine. If any step
// fails, all GPU objects created up to that point are released and the
// error is returned. On success, the engine's style colors have been
// corrected for the framebuffer (if needed) and its font texture has
// been set.
func New(engine GUIEngine, device gpu.Device, config Config, lg *log.Logger) (*Renderer, error) {
	r := &Renderer{
		device:   device,
		lg:       lg,
		config:   config,
		textures: NewTextureRegistry(),
	}

	if err := r.initialize(engine); err != nil {
		r.Dispose()
		lg.Errorf("renderer initialization failed: %v", err)
		return nil, err
	}

	// Only touch the engine once all of the GPU work has succeeded so
	// that a failed New leaves it as it was.
	if config.SRGBFramebuffer {
		correctStyleColors(engine)
	}
	engine.SetFontTexture(r.fontTexture)

	lg.Info("renderer initialized", "srgb", config.SRGBFramebuffer, "font_texture", r.fontTexture)
	return r, nil
}

func (r *Renderer) initialize(engine GUIEngine) error {
	var err error
	if r.vertexShader, err = r.device.CreateShader(gpu.ShaderStageVertex, []byte(vertexShaderSource)); err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	if r.fragmentShader, err = r.device.CreateShader(gpu.ShaderStageFragment, []byte(fragmentShaderSource)); err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	r.pipeline, err = r.device.CreateGraphicsPipeline(gpu.VertexPipelineDesc{
		VertexShader:   r.vertexShader,
		FragmentShader: r.fragmentShader,
	})
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	atlas, err := engine.FontAtlas()
	if err != nil {
		return fmt.Errorf("font atlas: %w", err)
	}
	r.lg.Infof("font atlas %dx%d", atlas.Width, atlas.Height)
	tex, err := r.createTexture(atlas.Pixels, atlas.Width, atlas.Height, r.config.FontTextureName)
	if err != nil {
		return fmt.Errorf("font atlas: %w", err)
	}
	r.fontTexture = r.textures.Insert(tex)

	r.vertexArray, err = r.device.CreateVertexArray([]gpu.VertexAttributeDesc{
		{Location: 0, Binding: 0, Format: gpu.VertexFormatXY32Float, Offset: drawVertexPosOffset},
		{Location: 1, Binding: 0, Format: gpu.VertexFormatXY32Float, Offset: drawVertexUVOffset},
		{Location: 2, Binding: 0, Format: gpu.VertexFormatXYZW8Unorm, Offset: drawVertexColOffset},
	})
	if err != nil {
		return fmt.Errorf("vertex array: %w", err)
	}
	return nil
}

// createTexture uploads tightly packed RGBA8 pixels to a new sRGB image
// and creates the view and sampler needed to draw with it. Nothing is
// left allocated if it fails.
func (r *Renderer) createTexture(pixels []byte, width, height int, name string) (tex Texture, err error) {
	if width <= 0 || height <= 0 || len(pixels) < 4*width*height {
		return Texture{}, fmt.Errorf("%dx%d image with %d bytes of RGBA8 pixels: %w", width, height,
			len(pixels), gpu.ErrCreationFailed)
	}

	defer func() {
		if err != nil {
			r.destroyTexture(tex)
			tex = Texture{}
		}
	}()

	tex.Image, err = r.device.CreateImage(gpu.ImageDesc{
		Width:   uint32(width),
		Height:  uint32(height),
		Layers:  1,
		Samples: 1,
		Format:  gpu.FormatR8G8B8A8SRGB,
		Levels:  1,
	})
	if err != nil {
		return
	}
	if name != "" {
		r.device.SetObjectName(tex.Image, name)
	}

	err = r.device.CopyHostToImage(pixels[:4*width*height], tex.Image, gpu.HostImageCopy{
		HostLayout: gpu.MemoryLayout{
			BaseFormat:   gpu.BaseFormatRGBA,
			FormatLayout: gpu.FormatLayoutU8,
			RowLength:    uint32(width),
			ImageHeight:  uint32(height),
			Alignment:    4,
		},
		ImageSubresource: gpu.SubresourceLayers{Level: 0, Layers: gpu.Range{Start: 0, End: 1}},
		ImageOffset:      gpu.Offset{},
		ImageExtent:      gpu.Extent{Width: uint32(width), Height: uint32(height), Depth: 1},
	})
	if err != nil {
		return
	}

	tex.View, err = r.device.CreateImageView(tex.Image, gpu.ImageViewDesc{
		Type:   gpu.ImageViewType2D,
		Format: gpu.FormatR8G8B8A8SRGB,
		Range: gpu.SubresourceRange{
			Layers: gpu.Range{Start: 0, End: 1},
			Levels: gpu.Range{Start: 0, End: 1},
		},
	})
	if err != nil {
		return
	}

	tex.Sampler, err = r.device.CreateSampler(gpu.SamplerDesc{
		MinFilter: gpu.FilterLinear,
		MagFilter: gpu.FilterLinear,
		Address: [3]gpu.SamplerAddress{gpu.SamplerAddressClampEdge, gpu.SamplerAddressClampEdge,
			gpu.SamplerAddressClampEdge},
		Lod:         [2]float32{0, 10},
		BorderColor: [4]float32{0, 0, 0, 1},
	})
	return
}

func (r *Renderer) destroyTexture(tex Texture) {
	if tex.Sampler != 0 {
		r.device.DeleteSampler(tex.Sampler)
	}
	if tex.View != 0 {
		r.device.DeleteImageView(tex.View)
	}
	if tex.Image != 0 {
		r.device.DeleteImage(tex.Image)
	}
}

// RegisterTexture uploads the image and returns an id that draw commands
// can use to refer to it.
func (r *Renderer) RegisterTexture(img image.Image) (TextureID, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*rgba.Rect.Dx() || rgba.Rect.Min != (image.Point{}) {
		bounds := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	name := fmt.Sprintf("texture-%d", r.textures.Len())
	tex, err := r.createTexture(rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), name)
	if err != nil {
		return 0, fmt.Errorf("RegisterTexture: %w", err)
	}
	id := r.textures.Insert(tex)
	r.lg.Debug("registered texture", "id", id, "width", rgba.Rect.Dx(), "height", rgba.Rect.Dy())
	return id, nil
}

// DestroyTexture releases a texture returned by RegisterTexture. The
// font atlas texture cannot be destroyed.
func (r *Renderer) DestroyTexture(id TextureID) error {
	if id == r.fontTexture {
		return fmt.Errorf("DestroyTexture: %s is the font atlas", id)
	}
	tex, ok := r.textures.Remove(id)
	if !ok {
		return fmt.Errorf("DestroyTexture: %w: %s", ErrUnregisteredTexture, id)
	}
	r.destroyTexture(tex)
	r.lg.Debug("destroyed texture", "id", id)
	return nil
}

// FontTexture returns the id of the font atlas texture.
func (r *Renderer) FontTexture() TextureID {
	return r.fontTexture
}

// Stats returns statistics about the most recently rendered frame.
func (r *Renderer) Stats() RendererStats {
	return r.stats
}

// Dispose releases all of the GPU objects owned by the renderer,
// including registered textures. The renderer may not be used
// afterward.
func (r *Renderer) Dispose() {
	for id, tex := range r.textures.All() {
		r.textures.Remove(id)
		r.destroyTexture(tex)
	}
	if r.vertexArray != 0 {
		r.device.DeleteVertexArray(r.vertexArray)
		r.vertexArray = 0
	}
	if r.pipeline != 0 {
		r.device.DeletePipeline(r.pipeline)
		r.pipeline = 0
	}
	if r.fragmentShader != 0 {
		r.device.DeleteShader(r.fragmentShader)
		r.fragmentShader = 0
	}
	if r.vertexShader != 0 {
		r.device.DeleteShader(r.vertexShader)
		r.vertexShader = 0
	}
	r.fontTexture = 0
}
