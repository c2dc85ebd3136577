// renderer/render_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/gpu/gputest"
	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/math"
)

func elements(n uint32, clip [4]float32, tex TextureID) DrawCommand {
	return DrawCommand{Kind: DrawCommandElements, ElemCount: n, ClipRect: clip, TextureID: tex}
}

// testFrame returns a frame with a single draw list holding the given
// commands, with enough (zero) indices for all of them.
func testFrame(w, h float32, cmds ...DrawCommand) *FrameDrawData {
	var n uint32
	for _, c := range cmds {
		n += c.ElemCount
	}
	return &FrameDrawData{
		DisplaySize:      [2]float32{w, h},
		FramebufferScale: [2]float32{1, 1},
		DrawLists: []DrawList{{
			Commands:  cmds,
			VtxBuffer: make([]DrawVertex, 3),
			IdxBuffer: make([]uint16, n),
		}},
	}
}

// drawnRanges returns the index range of each recorded draw.
func drawnRanges(d *gputest.Device) []gpu.Range {
	var r []gpu.Range
	for _, c := range d.CallsOf("DrawIndexed") {
		r = append(r, c.Indices)
	}
	return r
}

func TestProjection(t *testing.T) {
	type test struct {
		pos, size [2]float32
		p, clip   [2]float32
	}
	for _, tc := range []test{
		{size: [2]float32{800, 600}, p: [2]float32{0, 0}, clip: [2]float32{-1, 1}},
		{size: [2]float32{800, 600}, p: [2]float32{800, 600}, clip: [2]float32{1, -1}},
		{size: [2]float32{800, 600}, p: [2]float32{400, 150}, clip: [2]float32{0, 0.5}},
		{pos: [2]float32{-50, 20}, size: [2]float32{100, 40}, p: [2]float32{-50, 20}, clip: [2]float32{-1, 1}},
		{pos: [2]float32{-50, 20}, size: [2]float32{100, 40}, p: [2]float32{50, 60}, clip: [2]float32{1, -1}},
	} {
		c := projection(tc.pos, tc.size).TransformPoint(tc.p)
		if math.Abs(c[0]-tc.clip[0]) > 1e-6 || math.Abs(c[1]-tc.clip[1]) > 1e-6 {
			t.Errorf("pos %v size %v: %v -> %v, expected %v", tc.pos, tc.size, tc.p, c, tc.clip)
		}
	}
}

func TestDegenerateFrame(t *testing.T) {
	r, d, _ := newTestRenderer(t)
	for _, size := range [][2]float32{{0, 0}, {800, 0}, {0, 600}, {-800, 600}, {800, -1}} {
		fr := testFrame(size[0], size[1], elements(3, [4]float32{0, 0, 800, 600}, r.FontTexture()))
		if err := r.Render(fr); err != nil {
			t.Errorf("size %v: unexpected error %v", size, err)
		}
	}

	fr := testFrame(800, 600, elements(3, [4]float32{0, 0, 800, 600}, r.FontTexture()))
	fr.FramebufferScale = [2]float32{0, 2}
	if err := r.Render(fr); err != nil {
		t.Errorf("zero framebuffer scale: unexpected error %v", err)
	}
	if err := r.Render(nil); err != nil {
		t.Errorf("nil frame: unexpected error %v", err)
	}

	if calls := d.Calls(); len(calls) != 0 {
		t.Errorf("degenerate frames issued %d device calls, expected none", len(calls))
	}
}

func TestFrameState(t *testing.T) {
	r, d, _ := newTestRenderer(t)
	fr := testFrame(400, 300, elements(6, [4]float32{0, 0, 400, 300}, r.FontTexture()))
	fr.DisplayPos = [2]float32{10, 20}
	fr.FramebufferScale = [2]float32{2, 2}
	for i := range fr.DrawLists[0].IdxBuffer {
		fr.DrawLists[0].IdxBuffer[i] = uint16(i % 3)
	}

	if err := r.Render(fr); err != nil {
		t.Fatalf("Render: %v", err)
	}

	bufs := d.CallsOf("CreateBufferFromHost")
	if len(bufs) != 2 {
		t.Fatalf("got %d buffers, expected 2", len(bufs))
	}
	if len(bufs[0].Data) != 3*20 || len(bufs[1].Data) != 6*2 || bufs[0].Flags != gpu.MemoryFlagsNone {
		t.Errorf("got buffers of %d and %d bytes, expected 60 and 12", len(bufs[0].Data), len(bufs[1].Data))
	}
	vb, ib := bufs[0].Handle, bufs[1].Handle

	if c := d.CallsOf("BindIndexBuffer"); len(c) != 1 || c[0].Handles[0] != ib {
		t.Errorf("got index buffer bindings %+v", c)
	}
	expectView := gpu.VertexBufferView{Buffer: gpu.Buffer(vb), Stride: 20, InputRate: gpu.InputRateVertex}
	if c := d.CallsOf("BindVertexBuffers"); len(c) != 1 || !slices.Equal(c[0].VertexBuffers, []gpu.VertexBufferView{expectView}) {
		t.Errorf("got vertex buffer bindings %+v, expected %+v", c, expectView)
	}

	blend := d.CallsOf("BindColorBlendState")
	if len(blend) != 1 || len(blend[0].Blend.Attachments) != 1 {
		t.Fatalf("got blend state %+v", blend)
	}
	att := blend[0].Blend.Attachments[0]
	expectAtt := gpu.ColorBlendAttachment{
		BlendEnable: true,
		Color:       gpu.BlendChannel{SrcFactor: gpu.BlendFactorSrcAlpha, DstFactor: gpu.BlendFactorOneMinusSrcAlpha, Op: gpu.BlendOpAdd},
		Alpha:       gpu.BlendChannel{SrcFactor: gpu.BlendFactorOne, DstFactor: gpu.BlendFactorOne, Op: gpu.BlendOpAdd},
	}
	if att != expectAtt {
		t.Errorf("blend: got %+v, expected %+v", att, expectAtt)
	}

	consts := d.CallsOf("BindUniformConstants")
	if len(consts) != 1 || len(consts[0].Constants) != 1 || consts[0].First != 0 {
		t.Fatalf("got uniform constants %+v", consts)
	}
	if m, ok := consts[0].Constants[0].(gpu.Mat4x4); !ok || m != gpu.Mat4x4(projection(fr.DisplayPos, fr.DisplaySize)) {
		t.Errorf("got transform %v", consts[0].Constants[0])
	}

	vp := d.CallsOf("SetViewport")
	if expect := (gpu.Viewport{X: 0, Y: 0, W: 800, H: 600, N: 0, F: 1}); len(vp) != 1 || vp[0].Viewports[0] != expect {
		t.Errorf("got viewports %+v, expected %+v", vp, expect)
	}

	font, _ := r.textures.Get(r.FontTexture())
	if c := d.CallsOf("BindImageViews"); len(c) != 1 || c[0].First != 0 || c[0].Handles[0] != uint32(font.View) {
		t.Errorf("got image view bindings %+v", c)
	}
	if c := d.CallsOf("BindSamplers"); len(c) != 1 || c[0].First != 0 || c[0].Handles[0] != uint32(font.Sampler) {
		t.Errorf("got sampler bindings %+v", c)
	}

	draws := d.CallsOf("DrawIndexed")
	if len(draws) != 1 {
		t.Fatalf("got %d draws, expected 1", len(draws))
	}
	dr := draws[0]
	if dr.Primitive != gpu.PrimitiveTriangles || dr.IndexType != gpu.IndexTypeU16 ||
		dr.Indices != (gpu.Range{Start: 0, End: 6}) || dr.Instances != (gpu.Range{Start: 0, End: 1}) || dr.BaseVertex != 0 {
		t.Errorf("got draw %+v", dr)
	}

	if c := d.CallsOf("DeleteBuffer"); len(c) != 2 {
		t.Errorf("got %d buffer deletions, expected 2", len(c))
	}
	if n := d.Live(gpu.ObjectBuffer); n != 0 {
		t.Errorf("%d transient buffers still live", n)
	}

	if s := r.Stats(); s.DrawCalls() != 1 || s.Culled() != 0 || s.nTriangles != 2 || s.bufferBytes != 72 {
		t.Errorf("got stats %s", s.String())
	}
}

func TestCulling(t *testing.T) {
	type test struct {
		clip   [4]float32
		culled bool
	}
	for _, tc := range []test{
		{clip: [4]float32{800, 10, 810, 50}, culled: true},
		{clip: [4]float32{799, 10, 810, 50}, culled: false},
		{clip: [4]float32{10, 600, 50, 610}, culled: true},
		{clip: [4]float32{10, 599, 50, 610}, culled: false},
		{clip: [4]float32{-20, 10, -0.5, 50}, culled: true},
		{clip: [4]float32{-20, 10, 0, 50}, culled: false},
		{clip: [4]float32{10, -20, 50, -0.5}, culled: true},
		{clip: [4]float32{10, -20, 50, 0}, culled: false},
		{clip: [4]float32{-100, -100, 900, 700}, culled: false},
	} {
		r, d, _ := newTestRenderer(t)
		if err := r.Render(testFrame(800, 600, elements(3, tc.clip, r.FontTexture()))); err != nil {
			t.Errorf("%v: unexpected error %v", tc.clip, err)
		}
		n := len(d.CallsOf("DrawIndexed"))
		if tc.culled && n != 0 {
			t.Errorf("%v: drawn, expected culled", tc.clip)
		} else if !tc.culled && n != 1 {
			t.Errorf("%v: culled, expected drawn", tc.clip)
		}
		if s := r.Stats(); s.Culled()+s.DrawCalls() != 1 {
			t.Errorf("%v: got stats %s", tc.clip, s.String())
		}
	}
}

func TestCullingAppliesScale(t *testing.T) {
	// With a display offset of (100, 0) and a 2x scale, the 800-wide
	// framebuffer ends at display x=500.
	cull := func(x0 float32) bool {
		clip := framebufferClip([4]float32{x0, 0, x0 + 10, 10}, [2]float32{100, 0}, [2]float32{2, 2})
		return culled(clip, [2]float32{800, 600})
	}
	if !cull(500) {
		t.Errorf("x0=500 should be culled")
	}
	if cull(499.5) {
		t.Errorf("x0=499.5 should not be culled")
	}
}

func TestIndexRanges(t *testing.T) {
	visible := [4]float32{0, 0, 800, 600}
	offscreen := [4]float32{900, 0, 1000, 600}

	type test struct {
		name   string
		cmds   []DrawCommand
		expect []gpu.Range
	}
	r, d, _ := newTestRenderer(t)
	font := r.FontTexture()
	for _, tc := range []test{
		{name: "all visible",
			cmds:   []DrawCommand{elements(6, visible, font), elements(12, visible, font), elements(3, visible, font)},
			expect: []gpu.Range{{Start: 0, End: 6}, {Start: 6, End: 18}, {Start: 18, End: 21}}},
		{name: "culled in between",
			cmds: []DrawCommand{elements(6, visible, font), elements(9, offscreen, font),
				elements(12, visible, font), elements(30, offscreen, font), elements(3, visible, font)},
			expect: []gpu.Range{{Start: 0, End: 6}, {Start: 15, End: 27}, {Start: 57, End: 60}}},
		{name: "leading cull",
			cmds:   []DrawCommand{elements(3, offscreen, font), elements(6, visible, font)},
			expect: []gpu.Range{{Start: 3, End: 9}}},
	} {
		d.Reset()
		if err := r.Render(testFrame(800, 600, tc.cmds...)); err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if got := drawnRanges(d); !slices.Equal(got, tc.expect) {
			t.Errorf("%s: got ranges %v, expected %v", tc.name, got, tc.expect)
		}
	}
}

func TestIndexRangesPerDrawList(t *testing.T) {
	r, d, _ := newTestRenderer(t)
	font := r.FontTexture()
	visible := [4]float32{0, 0, 800, 600}

	a := testFrame(800, 600, elements(6, visible, font), elements(3, visible, font))
	b := testFrame(800, 600, elements(12, visible, font))
	a.DrawLists = append(a.DrawLists, b.DrawLists...)
	// An empty draw list issues nothing.
	a.DrawLists = append(a.DrawLists, DrawList{})

	if err := r.Render(a); err != nil {
		t.Fatalf("Render: %v", err)
	}
	expect := []gpu.Range{{Start: 0, End: 6}, {Start: 6, End: 9}, {Start: 0, End: 12}}
	if got := drawnRanges(d); !slices.Equal(got, expect) {
		t.Errorf("got ranges %v, expected %v", got, expect)
	}
	if n := len(d.CallsOf("CreateBufferFromHost")); n != 4 {
		t.Errorf("got %d buffers created, expected 4", n)
	}
	if n := d.Live(gpu.ObjectBuffer); n != 0 {
		t.Errorf("%d transient buffers still live", n)
	}
}

func TestScissor(t *testing.T) {
	type test struct {
		name    string
		pos     [2]float32
		size    [2]float32
		scale   [2]float32
		clip    [4]float32
		scissor gpu.Region
	}
	for _, tc := range []test{
		{name: "y flip", size: [2]float32{800, 600}, scale: [2]float32{1, 1},
			clip: [4]float32{20, 10, 120, 50}, scissor: gpu.Region{X: 20, Y: 550, W: 100, H: 40}},
		{name: "offset and scale", pos: [2]float32{100, 100}, size: [2]float32{400, 300}, scale: [2]float32{2, 2},
			clip: [4]float32{110, 105, 160, 125}, scissor: gpu.Region{X: 20, Y: 550, W: 100, H: 40}},
		{name: "fractional", size: [2]float32{800, 600}, scale: [2]float32{1.5, 1.5},
			clip: [4]float32{1, 1, 11, 11}, scissor: gpu.Region{X: 1, Y: 883, W: 15, H: 15}},
		{name: "round up", size: [2]float32{800, 600}, scale: [2]float32{1, 1},
			clip: [4]float32{0.5, 0, 10.75, 20.25}, scissor: gpu.Region{X: 0, Y: 579, W: 11, H: 21}},
	} {
		r, d, _ := newTestRenderer(t)
		fr := testFrame(tc.size[0], tc.size[1], elements(3, tc.clip, r.FontTexture()))
		fr.DisplayPos, fr.FramebufferScale = tc.pos, tc.scale
		if err := r.Render(fr); err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
			continue
		}
		sc := d.CallsOf("SetScissor")
		if len(sc) != 1 || len(sc[0].Scissors) != 1 || sc[0].First != 0 {
			t.Errorf("%s: got scissor calls %+v", tc.name, sc)
		} else if sc[0].Scissors[0] != tc.scissor {
			t.Errorf("%s: got scissor %+v, expected %+v", tc.name, sc[0].Scissors[0], tc.scissor)
		}
	}
}

func TestUnregisteredTexture(t *testing.T) {
	r, d, _ := newTestRenderer(t)
	var logged bytes.Buffer
	r.lg = log.NewWithHandler(slog.NewJSONHandler(&logged, nil))
	bogus := makeTextureID(17, 3)
	fr := testFrame(800, 600, elements(3, [4]float32{0, 0, 800, 600}, r.FontTexture()),
		elements(3, [4]float32{0, 0, 800, 600}, bogus))

	err := r.Render(fr)
	if !errors.Is(err, ErrUnregisteredTexture) {
		t.Errorf("got %v, expected ErrUnregisteredTexture", err)
	}
	if n := len(d.CallsOf("DrawIndexed")); n != 1 {
		t.Errorf("got %d draws, expected only the first command to be drawn", n)
	}
	if l := logged.String(); !strings.Contains(l, `"level":"ERROR"`) || !strings.Contains(l, "unregistered texture") {
		t.Errorf("contract violation not logged as an error: %s", l)
	}
	if n := d.Live(gpu.ObjectBuffer); n != 0 {
		t.Errorf("%d transient buffers leaked", n)
	}
}

func TestUnsupportedCommand(t *testing.T) {
	r, d, _ := newTestRenderer(t)
	fr := testFrame(800, 600, DrawCommand{Kind: DrawCommandCallback})

	if err := r.Render(fr); !errors.Is(err, ErrUnsupportedCommand) {
		t.Errorf("got %v, expected ErrUnsupportedCommand", err)
	}
	if n := len(d.CallsOf("DrawIndexed")); n != 0 {
		t.Errorf("got %d draws, expected none", n)
	}
	if n := d.Live(gpu.ObjectBuffer); n != 0 {
		t.Errorf("%d transient buffers leaked", n)
	}
}

func TestMidFrameFailure(t *testing.T) {
	type test struct {
		op    string
		n     int
		draws int
		kind  error
	}
	for _, tc := range []test{
		{op: "CreateBufferFromHost", n: 1, draws: 0, kind: gpu.ErrCreationFailed},
		{op: "CreateBufferFromHost", n: 2, draws: 0, kind: gpu.ErrCreationFailed},
		{op: "CreateBufferFromHost", n: 3, draws: 2, kind: gpu.ErrCreationFailed},
		{op: "BindPipeline", n: 1, draws: 0, kind: gpu.ErrInvalidHandle},
		{op: "BindVertexBuffers", n: 2, draws: 2, kind: gpu.ErrInvalidHandle},
		{op: "BindUniformConstants", n: 1, draws: 0, kind: gpu.ErrInvalidHandle},
		{op: "BindSamplers", n: 2, draws: 1, kind: gpu.ErrInvalidHandle},
		{op: "DrawIndexed", n: 2, draws: 2, kind: gpu.ErrInvalidHandle},
		{op: "DrawIndexed", n: 3, draws: 3, kind: gpu.ErrInvalidHandle},
	} {
		r, d, _ := newTestRenderer(t)
		d.FailOn(tc.op, tc.n)
		font := r.FontTexture()
		visible := [4]float32{0, 0, 800, 600}
		fr := testFrame(800, 600, elements(3, visible, font), elements(3, visible, font))
		fr.DrawLists = append(fr.DrawLists, testFrame(800, 600, elements(6, visible, font)).DrawLists...)

		if err := r.Render(fr); !errors.Is(err, tc.kind) {
			t.Errorf("%s #%d: got %v, expected %v", tc.op, tc.n, err, tc.kind)
		}
		if n := len(d.CallsOf("DrawIndexed")); n != tc.draws {
			t.Errorf("%s #%d: got %d draws issued, expected %d", tc.op, tc.n, n, tc.draws)
		}
		if n := d.Live(gpu.ObjectBuffer); n != 0 {
			t.Errorf("%s #%d: %d transient buffers leaked", tc.op, tc.n, n)
		}

		// Permanent objects are unaffected and the next frame renders.
		if err := r.Render(fr); err != nil {
			t.Errorf("%s #%d: next frame failed: %v", tc.op, tc.n, err)
		}
	}
}
