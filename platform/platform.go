// platform/platform.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform provides the window, OpenGL context, and input
// handling that drive an imgui frame: it forwards display size, time,
// mouse, and keyboard state to imgui's IO and presents the rendered
// frame.
package platform

import (
	"github.com/mmp/imrender/math"

	"github.com/AllenDang/cimgui-go/imgui"
)

// Platform abstracts the window system.
type Platform interface {
	// NewFrame forwards the current window and input state to imgui IO;
	// it should be called before imgui.NewFrame.
	NewFrame()
	// ProcessEvents handles all pending window events. Returns true if
	// there were any events and false otherwise.
	ProcessEvents() bool
	// PostRender presents the rendered frame.
	PostRender()
	// Dispose destroys the window and the OpenGL context.
	Dispose()
	// ShouldStop returns true if the user has asked to close the window.
	ShouldStop() bool
	SetWindowTitle(text string)
	// EnableVSync specifies whether buffer swaps wait for vertical sync.
	EnableVSync(sync bool)
	// DisplaySize returns the size of the window in screen coordinates.
	DisplaySize() [2]float32
	// FramebufferSize returns the size of the framebuffer in pixels.
	FramebufferSize() [2]float32
	WindowSize() [2]int
	WindowPosition() [2]int
	// DPIScale returns the ratio of framebuffer pixels to screen
	// coordinates.
	DPIScale() float32
	// GetClipboard returns a handler to pass to
	// imgui.PlatformIO.SetClipboardHandler.
	GetClipboard() imgui.ClipboardHandler
	// StartCaptureMouse constrains the mouse to the given extent, in
	// window coordinates, until EndCaptureMouse is called.
	StartCaptureMouse(e math.Extent2D)
	EndCaptureMouse()
}

type Config struct {
	InitialWindowSize     [2]int
	InitialWindowPosition [2]int

	EnableVSync bool
	// SRGB requests an sRGB-capable default framebuffer and enables
	// sRGB conversion on writes to it.
	SRGB bool
}

// DefaultConfig returns a Config that sizes the window to fit the
// primary monitor and requests an sRGB framebuffer.
func DefaultConfig() Config {
	return Config{
		InitialWindowPosition: [2]int{100, 100},
		EnableVSync:           true,
		SRGB:                  true,
	}
}
