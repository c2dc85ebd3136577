// cmd/imdemo/ui.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"

	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/math"
	"github.com/mmp/imrender/platform"
	"github.com/mmp/imrender/renderer"
	"github.com/mmp/imrender/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/ncruces/zenity"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type demoTexture struct {
	name string
	// Empty for generated images.
	path string
	id   renderer.TextureID
	size [2]int
}

type demoUI struct {
	r      *renderer.Renderer
	p      platform.Platform
	config *Config
	lg     *log.Logger

	textures     []demoTexture
	confineMouse bool
}

func newUI(r *renderer.Renderer, p platform.Platform, config *Config, lg *log.Logger) *demoUI {
	ui := &demoUI{r: r, p: p, config: config, lg: lg}

	ui.addTexture("checkerboard", "", makeCheckerboard(256, 32))

	var e util.ErrorLogger
	for _, fn := range config.ImageFiles {
		e.Push(fn)
		if img, err := loadImage(fn); err != nil {
			e.Error(err)
		} else {
			ui.addTexture(filepath.Base(fn), fn, img)
		}
		e.Pop()
	}
	if e.HaveErrors() {
		e.PrintErrors(lg)
		config.ImageFiles = slices.DeleteFunc(config.ImageFiles, func(fn string) bool {
			return !slices.ContainsFunc(ui.textures, func(t demoTexture) bool { return t.path == fn })
		})
	}

	return ui
}

// makeCheckerboard returns a size x size image of alternating
// check x check squares with a color gradient across it.
func makeCheckerboard(size, check int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := color.RGBA{R: uint8(255 * x / size), G: uint8(255 * y / size), B: 128, A: 255}
			if (x/check+y/check)%2 == 1 {
				c.R, c.G, c.B = c.R/4, c.G/4, c.B/4
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func loadImage(fn string) (image.Image, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return img, nil
}

func (ui *demoUI) addTexture(name, path string, img image.Image) bool {
	id, err := ui.r.RegisterTexture(img)
	if err != nil {
		ui.lg.Errorf("%s: unable to create texture: %v", name, err)
		return false
	}
	b := img.Bounds()
	ui.textures = append(ui.textures, demoTexture{name: name, path: path, id: id, size: [2]int{b.Dx(), b.Dy()}})
	return true
}

func (ui *demoUI) removeTexture(i int) {
	t := ui.textures[i]
	if err := ui.r.DestroyTexture(t.id); err != nil {
		ui.lg.Errorf("%s: %v", t.name, err)
	}
	ui.textures = slices.Delete(ui.textures, i, i+1)
	if t.path != "" {
		ui.config.ImageFiles = slices.DeleteFunc(ui.config.ImageFiles, func(fn string) bool { return fn == t.path })
	}
}

func (ui *demoUI) selectImage() {
	fn, err := zenity.SelectFile(
		zenity.Title("Select Image"),
		zenity.FileFilters{
			{
				Name:     "Images",
				Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.bmp", "*.webp"},
			},
		},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			ui.lg.Errorf("Error selecting image: %v", err)
		}
		return
	}

	img, err := loadImage(fn)
	if err != nil {
		ui.lg.Errorf("%v", err)
		_ = zenity.Error(err.Error(), zenity.Title("imdemo"))
		return
	}
	if ui.addTexture(filepath.Base(fn), fn, img) {
		ui.config.ImageFiles = append(ui.config.ImageFiles, fn)
	}
}

// clearColor returns the configured background color, converted for
// the framebuffer's encoding.
func (ui *demoUI) clearColor() [4]float32 {
	c := renderer.RGBA{R: ui.config.ClearColor[0], G: ui.config.ClearColor[1], B: ui.config.ClearColor[2], A: 1}
	if ui.config.SRGB {
		c = c.GammaToLinear()
	}
	return [4]float32{c.R, c.G, c.B, c.A}
}

func (ui *demoUI) draw() {
	if ui.config.ShowDemoWindow {
		imgui.ShowDemoWindowV(&ui.config.ShowDemoWindow)
	}

	imgui.BeginV("imrender", nil, imgui.WindowFlagsAlwaysAutoResize)
	defer imgui.End()

	stats := ui.r.Stats()
	imgui.Text(fmt.Sprintf("%.1f FPS", imgui.CurrentIO().Framerate()))
	imgui.Text(stats.String())

	imgui.Separator()
	imgui.ColorEdit3("Background", &ui.config.ClearColor)
	imgui.Checkbox("Show imgui demo window", &ui.config.ShowDemoWindow)
	vsync := ui.config.EnableVSync
	if imgui.Checkbox("V-sync", &vsync) {
		ui.p.EnableVSync(vsync)
	}
	if imgui.Checkbox("Confine mouse to this window", &ui.confineMouse) && !ui.confineMouse {
		ui.p.EndCaptureMouse()
	}
	if ui.confineMouse {
		pos, size := imgui.WindowPos(), imgui.WindowSize()
		ui.p.StartCaptureMouse(math.Extent2D{P1: [2]float32{size.X, size.Y}}.Offset([2]float32{pos.X, pos.Y}))
	}

	imgui.Separator()
	if imgui.Button("Load image...") {
		ui.selectImage()
	}
	for i := 0; i < len(ui.textures); i++ {
		t := ui.textures[i]
		imgui.Text(fmt.Sprintf("%s (%dx%d, %s)", t.name, t.size[0], t.size[1], t.id))
		imgui.SameLine()
		if imgui.Button(fmt.Sprintf("Remove##%d", t.id)) {
			ui.removeTexture(i)
			i--
			continue
		}
		scale := math.Clamp(256/float32(max(t.size[0], t.size[1])), 0, 1)
		imgui.Image(imgui.TextureID(t.id), imgui.Vec2{X: scale * float32(t.size[0]), Y: scale * float32(t.size[1])})
	}

	if imgui.CollapsingHeaderBoolPtr("Font atlas", nil) {
		imgui.Image(imgui.TextureID(ui.r.FontTexture()), imgui.Vec2{X: 512, Y: 512})
	}
}

func (ui *demoUI) dispose() {
	if ui.confineMouse {
		ui.p.EndCaptureMouse()
	}
	for _, t := range ui.textures {
		if err := ui.r.DestroyTexture(t.id); err != nil {
			ui.lg.Errorf("%s: %v", t.name, err)
		}
	}
	ui.textures = nil
}
