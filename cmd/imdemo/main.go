// cmd/imdemo/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// imdemo opens a window, renders the imgui demo and a few textures
// through the renderer, and exits when the window is closed.

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/mmp/imrender/gpu/ogl"
	"github.com/mmp/imrender/imguidata"
	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/platform"
	"github.com/mmp/imrender/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/goforj/godump"
	"github.com/ncruces/zenity"
)

var (
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	dumpDrawData = flag.Int("dumpdrawdata", -1, "print the draw data of the given frame number")
)

func init() {
	// OpenGL and GLFW calls must all be made from the main thread.
	runtime.LockOSThread()
}

// fatal reports an error that prevents the demo from running, both in
// the log and in a dialog box, and exits.
func fatal(lg *log.Logger, s string, args ...any) {
	msg := fmt.Sprintf(s, args...)
	lg.Error(msg)
	if err := zenity.Error(msg, zenity.Title("imdemo"), zenity.ErrorIcon); err != nil {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	config, configErr := LoadOrMakeDefaultConfig(lg)

	imguiInit(config)

	plat, err := platform.New(&config.Config, lg)
	if err != nil {
		fatal(lg, "Unable to create application window: %v", err)
	}
	imgui.CurrentPlatformIO().SetClipboardHandler(plat.GetClipboard())

	fontsInit(config, plat)

	device, err := ogl.New(lg)
	if err != nil {
		fatal(lg, "Unable to initialize OpenGL: %v", err)
	}

	engine, err := imguidata.NewEngine(lg)
	if err != nil {
		fatal(lg, "%v", err)
	}

	rconfig := renderer.DefaultConfig()
	rconfig.SRGBFramebuffer = config.SRGB
	r, err := renderer.New(engine, device, rconfig, lg)
	if err != nil {
		fatal(lg, "Unable to initialize renderer: %v", err)
	}

	if configErr != nil {
		lg.Errorf("Discarding corrupt config file: %v", configErr)
		_ = zenity.Warning(fmt.Sprintf("Saved configuration file is corrupt. Discarding. (%v)", configErr),
			zenity.Title("imdemo"))
	}

	ui := newUI(r, plat, config, lg)

	for frame := 0; !plat.ShouldStop(); frame++ {
		plat.ProcessEvents()
		plat.NewFrame()
		imgui.NewFrame()

		ui.draw()

		imgui.Render()

		fbSize := plat.FramebufferSize()
		device.Clear(ui.clearColor(), [2]int{int(fbSize[0]), int(fbSize[1])})

		fd := engine.FrameDrawData()
		if frame == *dumpDrawData {
			godump.Dump(fd)
		}
		if err := r.Render(fd); err != nil {
			lg.Errorf("frame %d: %v", frame, err)
		}

		plat.PostRender()
	}

	config.ImGuiSettings = imgui.SaveIniSettingsToMemory()

	ui.dispose()
	r.Dispose()
	device.Dispose()
	plat.Dispose()

	if err := config.Save(lg); err != nil {
		lg.Errorf("Error saving configuration file: %v", err)
	}
}

func imguiInit(config *Config) {
	imgui.CreateContext()
	imgui.CurrentIO().SetIniFilename("")
	imgui.LoadIniSettingsFromMemory(config.ImGuiSettings)

	style := imgui.CurrentStyle()
	style.SetFrameRounding(2.)
	style.SetWindowRounding(4.)
	style.SetPopupRounding(4.)
}

// fontsInit adds imgui's default font at the user's font scale. On
// Windows, sizes are also scaled by the DPI; elsewhere the framebuffer
// scale accounts for high-DPI displays. It must run before the renderer
// is created, since the renderer uploads the font atlas.
func fontsInit(config *Config, p platform.Platform) {
	size := 13 * config.FontScale
	if runtime.GOOS == "windows" {
		dpiScale := p.DPIScale()
		imgui.CurrentStyle().ScaleAllSizes(dpiScale)
		size = float32(int(size*dpiScale + 0.5))
	}

	fc := imgui.NewFontConfig()
	fc.SetSizePixels(size)
	imgui.CurrentIO().Fonts().AddFontDefaultV(fc)
}
