// gpu/gputest/device_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gputest

import (
	"errors"
	"testing"

	"github.com/mmp/imrender/gpu"
)

func TestLiveTracking(t *testing.T) {
	d := NewDevice()
	b0, err := d.CreateBufferFromHost([]byte{1, 2, 3}, gpu.MemoryFlagsNone)
	if err != nil {
		t.Fatalf("CreateBufferFromHost: %v", err)
	}
	b1, _ := d.CreateBufferFromHost(nil, gpu.MemoryFlagsNone)
	s, _ := d.CreateSampler(gpu.SamplerDesc{})

	if n := d.Live(gpu.ObjectBuffer); n != 2 {
		t.Errorf("got %d live buffers, expected 2", n)
	}
	d.DeleteBuffer(b0)
	if n := d.Live(gpu.ObjectBuffer); n != 1 {
		t.Errorf("got %d live buffers after delete, expected 1", n)
	}
	if d.IsLive(b0) || !d.IsLive(b1) || !d.IsLive(s) {
		t.Errorf("unexpected liveness: b0 %v b1 %v s %v", d.IsLive(b0), d.IsLive(b1), d.IsLive(s))
	}
	// A sampler handle reused as a buffer is not a live buffer.
	if d.IsLive(gpu.Buffer(s)) {
		t.Errorf("sampler handle reported as live buffer")
	}
	if objs := d.LiveObjects(); len(objs) != 2 {
		t.Errorf("got live objects %v, expected 2", objs)
	}
}

func TestInvalidHandles(t *testing.T) {
	d := NewDevice()
	b, _ := d.CreateBufferFromHost([]byte{0}, gpu.MemoryFlagsNone)
	d.DeleteBuffer(b)

	va, _ := d.CreateVertexArray(nil)
	if err := d.BindIndexBuffer(va, b); !errors.Is(err, gpu.ErrInvalidHandle) {
		t.Errorf("binding deleted buffer: got %v, expected ErrInvalidHandle", err)
	}
	if err := d.BindSamplers(0, []gpu.Sampler{42}); !errors.Is(err, gpu.ErrInvalidHandle) {
		t.Errorf("binding unknown sampler: got %v, expected ErrInvalidHandle", err)
	}
	if err := d.BindImageViews(0, []gpu.ImageView{0}); err != nil {
		t.Errorf("binding the zero view: unexpected error %v", err)
	}
}

func TestFailOn(t *testing.T) {
	d := NewDevice()
	d.FailOn("CreateShader", 2)
	d.FailOn("CreateGraphicsPipeline", 1)
	d.FailOn("DrawIndexed", 3)

	if _, err := d.CreateShader(gpu.ShaderStageVertex, []byte("vs")); err != nil {
		t.Errorf("first CreateShader: unexpected error %v", err)
	}
	_, err := d.CreateShader(gpu.ShaderStageFragment, []byte("fs"))
	if !errors.Is(err, gpu.ErrCompileFailed) || !errors.Is(err, gpu.ErrCreationFailed) {
		t.Errorf("second CreateShader: got %v, expected compile failure", err)
	}
	if _, err := d.CreateGraphicsPipeline(gpu.VertexPipelineDesc{}); !errors.Is(err, gpu.ErrLinkFailed) {
		t.Errorf("CreateGraphicsPipeline: got %v, expected link failure", err)
	}
	if n := d.Live(gpu.ObjectShader); n != 1 {
		t.Errorf("got %d live shaders, expected 1", n)
	}

	for i := 1; i <= 4; i++ {
		err := d.DrawIndexed(gpu.PrimitiveTriangles, gpu.IndexTypeU16, gpu.Range{End: 3}, gpu.Range{End: 1}, 0)
		if (err != nil) != (i == 3) {
			t.Errorf("DrawIndexed #%d: got error %v", i, err)
		}
	}
	if n := len(d.CallsOf("DrawIndexed")); n != 4 {
		t.Errorf("got %d recorded draws, expected 4", n)
	}
}

func TestCallsAreCopies(t *testing.T) {
	d := NewDevice()
	data := []byte{1, 2, 3, 4}
	d.CreateBufferFromHost(data, gpu.MemoryFlagsNone)
	data[0] = 99

	calls := d.Calls()
	if calls[0].Data[0] != 1 {
		t.Errorf("recorded data aliases caller's slice")
	}
	calls[0].Data[1] = 77
	if d.Calls()[0].Data[1] != 2 {
		t.Errorf("returned calls alias device state")
	}
}
