// platform/glfw.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	gomath "math"
	"runtime"

	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/math"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform implements the Platform interface using GLFW.
type glfwPlatform struct {
	imguiIO *imgui.IO

	window *glfw.Window
	config *Config
	lg     *log.Logger

	time                   float64
	mouseJustPressed       [MouseButtonCount]bool
	mouseCursors           [imgui.MouseCursorCOUNT]*glfw.Cursor
	currentCursor          *glfw.Cursor
	anyEvents              bool
	lastMouseX, lastMouseY float64
	windowTitle            string
	mouseCapture           math.Extent2D
}

// New creates a window with an OpenGL 4.5 core context that is current
// on the calling thread, which must be the main thread. The imgui
// context must already exist. Zero window sizes in config are replaced
// with a size that fits the primary monitor.
func New(config *Config, lg *log.Logger) (Platform, error) {
	lg.Info("Starting GLFW initialization")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	io := imgui.CurrentIO()
	io.SetBackendFlags(io.BackendFlags() | imgui.BackendFlagsHasMouseCursors)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if config.SRGB {
		glfw.WindowHint(glfw.SRGBCapable, glfw.True)
	}

	vm := glfw.GetPrimaryMonitor().GetVideoMode()
	if config.InitialWindowSize[0] <= 0 || config.InitialWindowSize[1] <= 0 {
		config.InitialWindowSize = [2]int{vm.Width - 150, vm.Height - 150}
	}
	if config.InitialWindowPosition[0] < 0 || config.InitialWindowPosition[1] < 0 ||
		config.InitialWindowPosition[0] > vm.Width || config.InitialWindowPosition[1] > vm.Height {
		config.InitialWindowPosition = [2]int{100, 100}
	}

	// Start with an invisible window so that we can position it first
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(config.InitialWindowSize[0], config.InitialWindowSize[1], "imdemo", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.SetPos(config.InitialWindowPosition[0], config.InitialWindowPosition[1])
	window.Show()
	window.MakeContextCurrent()

	g := &glfwPlatform{
		config:  config,
		imguiIO: io,
		window:  window,
		lg:      lg,
	}
	g.installCallbacks()
	g.createMouseCursors()
	g.EnableVSync(config.EnableVSync)

	lg.Info("Finished GLFW initialization")

	return g, nil
}

func (g *glfwPlatform) DPIScale() float32 {
	if runtime.GOOS == "windows" {
		sx, sy := g.window.GetContentScale()
		return float32(int((sx + sy) / 2))
	}
	if ds := g.DisplaySize(); ds[0] > 0 {
		return g.FramebufferSize()[0] / ds[0]
	}
	return 1
}

func (g *glfwPlatform) EnableVSync(sync bool) {
	g.config.EnableVSync = sync
	if sync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (g *glfwPlatform) Dispose() {
	// Record where the window ended up so it can be saved.
	g.config.InitialWindowSize = g.WindowSize()
	g.config.InitialWindowPosition = g.WindowPosition()

	g.lg.Infof("Closing window at %v, size %v", g.config.InitialWindowPosition, g.config.InitialWindowSize)
	for _, c := range g.mouseCursors {
		if c != nil {
			c.Destroy()
		}
	}
	g.window.Destroy()
	glfw.Terminate()
}

func (g *glfwPlatform) ShouldStop() bool {
	return g.window.ShouldClose()
}

func (g *glfwPlatform) ProcessEvents() bool {
	g.anyEvents = false

	glfw.PollEvents()

	if g.anyEvents {
		return true
	}

	for _, b := range glfwButtonIDByIndex {
		if g.window.GetMouseButton(b) == glfw.Press {
			return true
		}
	}

	x, y := g.window.GetCursorPos()
	if x != g.lastMouseX || y != g.lastMouseY {
		g.lastMouseX, g.lastMouseY = x, y
		return true
	}

	return false
}

func (g *glfwPlatform) DisplaySize() [2]float32 {
	w, h := g.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) WindowSize() [2]int {
	w, h := g.window.GetSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) WindowPosition() [2]int {
	x, y := g.window.GetPos()
	return [2]int{x, y}
}

func (g *glfwPlatform) FramebufferSize() [2]float32 {
	w, h := g.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) NewFrame() {
	if g.config.SRGB {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	}

	// Every frame, to handle window resizing.
	displaySize := g.DisplaySize()
	g.imguiIO.SetDisplaySize(imgui.Vec2{X: displaySize[0], Y: displaySize[1]})
	if displaySize[0] > 0 && displaySize[1] > 0 {
		fbSize := g.FramebufferSize()
		g.imguiIO.SetDisplayFramebufferScale(imgui.Vec2{X: fbSize[0] / displaySize[0], Y: fbSize[1] / displaySize[1]})
	}

	currentTime := glfw.GetTime()
	if g.time > 0 {
		g.imguiIO.SetDeltaTime(float32(currentTime - g.time))
	}
	g.time = currentTime

	if g.window.GetAttrib(glfw.Focused) != 0 {
		pc := g.capturedCursorPos()
		g.imguiIO.SetMousePos(imgui.Vec2{X: pc[0], Y: pc[1]})
	} else {
		g.imguiIO.SetMousePos(imgui.Vec2{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32})
	}

	for i := range g.mouseJustPressed {
		down := g.mouseJustPressed[i] || g.window.GetMouseButton(glfwButtonIDByIndex[i]) == glfw.Press
		g.imguiIO.SetMouseButtonDown(i, down)
		g.mouseJustPressed[i] = false
	}

	g.updateCursor()

	if g.capturing() {
		if pc := g.getCursorPos(); !g.mouseCapture.Inside(pc) {
			pc = g.mouseCapture.ClosestPointInBox(pc)
			g.window.SetCursorPos(float64(pc[0]), float64(pc[1]))
		}
	}
}

func (g *glfwPlatform) updateCursor() {
	cursor := imgui.CurrentMouseCursor()
	if cursor == imgui.MouseCursorNone {
		g.window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
		return
	}

	c := g.mouseCursors[cursor]
	if c == nil {
		c = g.mouseCursors[imgui.MouseCursorArrow]
	}
	if c != g.currentCursor {
		g.currentCursor = c
		g.window.SetCursor(c)
	}
	g.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (g *glfwPlatform) getCursorPos() [2]float32 {
	x, y := g.window.GetCursorPos()
	return [2]float32{float32(int(x)), float32(int(y))}
}

func (g *glfwPlatform) capturedCursorPos() [2]float32 {
	pc := g.getCursorPos()
	if g.capturing() && !g.mouseCapture.Inside(pc) {
		pc = g.mouseCapture.ClosestPointInBox(pc)
	}
	return pc
}

func (g *glfwPlatform) capturing() bool {
	return g.mouseCapture.Width() > 0 && g.mouseCapture.Height() > 0
}

func (g *glfwPlatform) PostRender() {
	g.window.SwapBuffers()
}

func (g *glfwPlatform) installCallbacks() {
	g.window.SetMouseButtonCallback(g.mouseButtonChange)
	g.window.SetScrollCallback(g.mouseScrollChange)
	g.window.SetKeyCallback(g.keyChange)
	g.window.SetCharCallback(g.charChange)
}

func (g *glfwPlatform) mouseButtonChange(window *glfw.Window, rawButton glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	buttonIndex, known := glfwButtonIndexByID[rawButton]
	if !known {
		return
	}

	g.anyEvents = true
	if action == glfw.Press {
		g.mouseJustPressed[buttonIndex] = true
	}
	g.updateKeyModifiers()
}

func (g *glfwPlatform) mouseScrollChange(window *glfw.Window, x, y float64) {
	g.anyEvents = true
	g.imguiIO.AddMouseWheelDelta(float32(x), float32(y))
}

func (g *glfwPlatform) keyChange(window *glfw.Window, keycode glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	g.anyEvents = true
	g.updateKeyModifiers()

	if action != glfw.Press && action != glfw.Release {
		return
	}

	kc := translateKeyName(keycode, glfw.GetKeyName(keycode, scancode))
	g.imguiIO.AddKeyEvent(glfwKeyToImguiKey(kc), action == glfw.Press)
}

func (g *glfwPlatform) keyDown(keys ...glfw.Key) bool {
	for _, k := range keys {
		if g.window.GetKey(k) == glfw.Press {
			return true
		}
	}
	return false
}

func (g *glfwPlatform) updateKeyModifiers() {
	g.imguiIO.AddKeyEvent(imgui.ModShift, g.keyDown(glfw.KeyLeftShift, glfw.KeyRightShift))
	g.imguiIO.AddKeyEvent(imgui.ModAlt, g.keyDown(glfw.KeyLeftAlt, glfw.KeyRightAlt))
	ctrl := g.keyDown(glfw.KeyLeftControl, glfw.KeyRightControl)
	super := g.keyDown(glfw.KeyLeftSuper, glfw.KeyRightSuper)
	if runtime.GOOS == "darwin" {
		// imgui swaps Command and Control on macOS; undo that so that
		// control still comes through as control.
		ctrl, super = super, ctrl
	}
	g.imguiIO.AddKeyEvent(imgui.ModCtrl, ctrl)
	g.imguiIO.AddKeyEvent(imgui.ModSuper, super)
}

func (g *glfwPlatform) charChange(window *glfw.Window, char rune) {
	g.anyEvents = true
	g.imguiIO.AddInputCharactersUTF8(string(char))
}

func (g *glfwPlatform) createMouseCursors() {
	// GLFW 3.3 has no standard cursors for ResizeAll or the diagonal
	// resizes; those fall back to the arrow.
	g.mouseCursors[imgui.MouseCursorArrow] = glfw.CreateStandardCursor(glfw.ArrowCursor)
	g.mouseCursors[imgui.MouseCursorTextInput] = glfw.CreateStandardCursor(glfw.IBeamCursor)
	g.mouseCursors[imgui.MouseCursorResizeNS] = glfw.CreateStandardCursor(glfw.VResizeCursor)
	g.mouseCursors[imgui.MouseCursorResizeEW] = glfw.CreateStandardCursor(glfw.HResizeCursor)
	g.mouseCursors[imgui.MouseCursorHand] = glfw.CreateStandardCursor(glfw.HandCursor)
}

func (g *glfwPlatform) SetWindowTitle(text string) {
	if text != g.windowTitle {
		g.window.SetTitle(text)
		g.windowTitle = text
	}
}

func (g *glfwPlatform) GetClipboard() imgui.ClipboardHandler {
	return glfwClipboard{window: g.window}
}

type glfwClipboard struct {
	window *glfw.Window
}

func (cb glfwClipboard) GetClipboard() string {
	return cb.window.GetClipboardString()
}

func (cb glfwClipboard) SetClipboard(text string) {
	cb.window.SetClipboardString(text)
}

func (g *glfwPlatform) StartCaptureMouse(e math.Extent2D) {
	g.mouseCapture = math.Extent2D{
		P0: [2]float32{math.Ceil(e.P0[0]), math.Ceil(e.P0[1])},
		P1: [2]float32{math.Floor(e.P1[0]), math.Floor(e.P1[1])}}
}

func (g *glfwPlatform) EndCaptureMouse() {
	g.mouseCapture = math.Extent2D{}
}
