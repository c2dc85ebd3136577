// gpu/gputest/device.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package gputest provides a gpu.Device that records the calls made to
// it, for use in tests. It tracks which objects are alive so that tests
// can check for leaks, validates handles the way a real driver would,
// and can be told to fail specific calls.
package gputest

import (
	"fmt"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/util"

	"github.com/brunoga/deep"
)

// Call records a single Device method invocation. Only the fields that
// are meaningful for the given Op are set.
type Call struct {
	Op string

	// Object created, deleted, or bound by the call.
	Handle uint32
	// Additional handles, e.g. the buffer in BindIndexBuffer or the
	// views/samplers in BindImageViews/BindSamplers.
	Handles []uint32

	Stage      gpu.ShaderStage
	Source     string
	Pipeline   gpu.VertexPipelineDesc
	Image      gpu.ImageDesc
	Copy       gpu.HostImageCopy
	View       gpu.ImageViewDesc
	Sampler    gpu.SamplerDesc
	Data       []byte
	Flags      gpu.MemoryFlags
	Attributes []gpu.VertexAttributeDesc
	Name       string

	First         uint32
	VertexBuffers []gpu.VertexBufferView
	Blend         gpu.ColorBlend
	Constants     []gpu.Constant
	Viewports     []gpu.Viewport
	Scissors      []gpu.Region

	Primitive  gpu.Primitive
	IndexType  gpu.IndexType
	Indices    gpu.Range
	Instances  gpu.Range
	BaseVertex int32
}

// Device implements gpu.Device, recording each call.
type Device struct {
	calls []Call

	nextHandle uint32
	live       map[uint32]gpu.ObjectType
	names      map[uint32]string

	// Calls to fail; keyed by Op, the value is the 1-based invocation
	// count at which to fail.
	failAt map[string]int
	counts map[string]int
}

var _ gpu.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		live:   make(map[uint32]gpu.ObjectType),
		names:  make(map[uint32]string),
		failAt: make(map[string]int),
		counts: make(map[string]int),
	}
}

// FailOn arranges for the n'th (1-based) call to the named Device method
// to fail. Creation methods fail with gpu.ErrCreationFailed (or
// ErrCompileFailed for CreateShader and ErrLinkFailed for
// CreateGraphicsPipeline); other methods fail with ErrInvalidHandle.
func (d *Device) FailOn(op string, n int) {
	d.failAt[op] = n
}

// Calls returns a copy of all of the calls recorded so far.
func (d *Device) Calls() []Call {
	return deep.MustCopy(d.calls)
}

// CallsOf returns copies of the recorded calls with the given Op.
func (d *Device) CallsOf(op string) []Call {
	var c []Call
	for _, call := range d.calls {
		if call.Op == op {
			c = append(c, call)
		}
	}
	return deep.MustCopy(c)
}

// Reset discards the recorded calls; live objects are unaffected.
func (d *Device) Reset() {
	d.calls = nil
}

// Live returns the number of live objects of the given type.
func (d *Device) Live(t gpu.ObjectType) int {
	return util.ReduceMap(d.live, func(_ uint32, ot gpu.ObjectType, n int) int {
		if ot == t {
			n++
		}
		return n
	}, 0)
}

// LiveObjects returns a description of all objects that have been
// created but not deleted, sorted by handle.
func (d *Device) LiveObjects() []string {
	var s []string
	for _, h := range util.SortedMapKeys(d.live) {
		s = append(s, fmt.Sprintf("%s %d", d.live[h], h))
	}
	return s
}

// IsLive reports whether the given object exists.
func (d *Device) IsLive(obj gpu.Object) bool {
	t, ok := d.live[obj.Handle()]
	return ok && t == obj.ObjectType()
}

// Name returns the debug label given to an object, if any.
func (d *Device) Name(obj gpu.Object) string {
	return d.names[obj.Handle()]
}

func (d *Device) shouldFail(op string) bool {
	d.counts[op]++
	n, ok := d.failAt[op]
	return ok && n == d.counts[op]
}

func (d *Device) create(op string, t gpu.ObjectType, kind error, c Call) (uint32, error) {
	c.Op = op
	if d.shouldFail(op) {
		d.calls = append(d.calls, c)
		return 0, gpu.NewError(op, kind, "injected failure")
	}
	d.nextHandle++
	c.Handle = d.nextHandle
	d.live[c.Handle] = t
	d.calls = append(d.calls, c)
	return c.Handle, nil
}

func (d *Device) delete(op string, t gpu.ObjectType, h uint32) {
	d.calls = append(d.calls, Call{Op: op, Handle: h})
	if lt, ok := d.live[h]; ok && lt == t {
		delete(d.live, h)
		delete(d.names, h)
	}
}

// check returns an ErrInvalidHandle error if any of the objects is not
// alive (a zero handle is allowed, matching unbinding in OpenGL) or if a
// failure was injected for op.
func (d *Device) check(op string, objs ...gpu.Object) error {
	if d.shouldFail(op) {
		return gpu.NewError(op, gpu.ErrInvalidHandle, "injected failure")
	}
	for _, obj := range objs {
		if obj.Handle() != 0 && !d.IsLive(obj) {
			return gpu.NewError(op, gpu.ErrInvalidHandle, fmt.Sprintf("%s %d", obj.ObjectType(), obj.Handle()))
		}
	}
	return nil
}

func (d *Device) CreateShader(stage gpu.ShaderStage, source []byte) (gpu.Shader, error) {
	h, err := d.create("CreateShader", gpu.ObjectShader, gpu.ErrCompileFailed,
		Call{Stage: stage, Source: string(source)})
	return gpu.Shader(h), err
}

func (d *Device) DeleteShader(s gpu.Shader) {
	d.delete("DeleteShader", gpu.ObjectShader, uint32(s))
}

func (d *Device) CreateGraphicsPipeline(desc gpu.VertexPipelineDesc) (gpu.Pipeline, error) {
	if err := d.check("CreateGraphicsPipeline.shaders", desc.VertexShader, desc.FragmentShader); err != nil {
		return 0, err
	}
	h, err := d.create("CreateGraphicsPipeline", gpu.ObjectPipeline, gpu.ErrLinkFailed, Call{Pipeline: desc})
	return gpu.Pipeline(h), err
}

func (d *Device) DeletePipeline(p gpu.Pipeline) {
	d.delete("DeletePipeline", gpu.ObjectPipeline, uint32(p))
}

func (d *Device) CreateImage(desc gpu.ImageDesc) (gpu.Image, error) {
	h, err := d.create("CreateImage", gpu.ObjectImage, gpu.ErrCreationFailed, Call{Image: desc})
	return gpu.Image(h), err
}

func (d *Device) DeleteImage(img gpu.Image) {
	d.delete("DeleteImage", gpu.ObjectImage, uint32(img))
}

func (d *Device) CopyHostToImage(data []byte, img gpu.Image, region gpu.HostImageCopy) error {
	d.calls = append(d.calls, Call{Op: "CopyHostToImage", Handle: uint32(img),
		Data: append([]byte(nil), data...), Copy: region})
	if img == 0 {
		return gpu.NewError("CopyHostToImage", gpu.ErrInvalidHandle, "image 0")
	}
	return d.check("CopyHostToImage", img)
}

func (d *Device) CreateImageView(img gpu.Image, desc gpu.ImageViewDesc) (gpu.ImageView, error) {
	if err := d.check("CreateImageView.image", img); err != nil {
		return 0, err
	}
	h, err := d.create("CreateImageView", gpu.ObjectImageView, gpu.ErrCreationFailed,
		Call{Handles: []uint32{uint32(img)}, View: desc})
	return gpu.ImageView(h), err
}

func (d *Device) DeleteImageView(view gpu.ImageView) {
	d.delete("DeleteImageView", gpu.ObjectImageView, uint32(view))
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	h, err := d.create("CreateSampler", gpu.ObjectSampler, gpu.ErrCreationFailed, Call{Sampler: desc})
	return gpu.Sampler(h), err
}

func (d *Device) DeleteSampler(s gpu.Sampler) {
	d.delete("DeleteSampler", gpu.ObjectSampler, uint32(s))
}

func (d *Device) CreateBufferFromHost(data []byte, flags gpu.MemoryFlags) (gpu.Buffer, error) {
	h, err := d.create("CreateBufferFromHost", gpu.ObjectBuffer, gpu.ErrCreationFailed,
		Call{Data: append([]byte(nil), data...), Flags: flags})
	return gpu.Buffer(h), err
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.delete("DeleteBuffer", gpu.ObjectBuffer, uint32(b))
}

func (d *Device) CreateVertexArray(attributes []gpu.VertexAttributeDesc) (gpu.VertexArray, error) {
	h, err := d.create("CreateVertexArray", gpu.ObjectVertexArray, gpu.ErrCreationFailed,
		Call{Attributes: append([]gpu.VertexAttributeDesc(nil), attributes...)})
	return gpu.VertexArray(h), err
}

func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	d.delete("DeleteVertexArray", gpu.ObjectVertexArray, uint32(va))
}

func (d *Device) SetObjectName(obj gpu.Object, name string) {
	d.calls = append(d.calls, Call{Op: "SetObjectName", Handle: obj.Handle(), Name: name})
	if d.IsLive(obj) {
		d.names[obj.Handle()] = name
	}
}

func (d *Device) BindPipeline(p gpu.Pipeline) error {
	d.calls = append(d.calls, Call{Op: "BindPipeline", Handle: uint32(p)})
	return d.check("BindPipeline", p)
}

func (d *Device) BindVertexArray(va gpu.VertexArray) error {
	d.calls = append(d.calls, Call{Op: "BindVertexArray", Handle: uint32(va)})
	return d.check("BindVertexArray", va)
}

func (d *Device) BindIndexBuffer(va gpu.VertexArray, b gpu.Buffer) error {
	d.calls = append(d.calls, Call{Op: "BindIndexBuffer", Handle: uint32(va), Handles: []uint32{uint32(b)}})
	return d.check("BindIndexBuffer", va, b)
}

func (d *Device) BindVertexBuffers(va gpu.VertexArray, first uint32, views []gpu.VertexBufferView) error {
	c := Call{Op: "BindVertexBuffers", Handle: uint32(va), First: first,
		VertexBuffers: append([]gpu.VertexBufferView(nil), views...)}
	objs := []gpu.Object{va}
	for _, v := range views {
		c.Handles = append(c.Handles, uint32(v.Buffer))
		objs = append(objs, v.Buffer)
	}
	d.calls = append(d.calls, c)
	return d.check("BindVertexBuffers", objs...)
}

func (d *Device) BindColorBlendState(state gpu.ColorBlend) {
	d.calls = append(d.calls, Call{Op: "BindColorBlendState", Blend: deep.MustCopy(state)})
}

func (d *Device) BindUniformConstants(p gpu.Pipeline, first uint32, constants []gpu.Constant) error {
	d.calls = append(d.calls, Call{Op: "BindUniformConstants", Handle: uint32(p), First: first,
		Constants: append([]gpu.Constant(nil), constants...)})
	return d.check("BindUniformConstants", p)
}

func (d *Device) BindImageViews(first uint32, views []gpu.ImageView) error {
	c := Call{Op: "BindImageViews", First: first}
	var objs []gpu.Object
	for _, v := range views {
		c.Handles = append(c.Handles, uint32(v))
		objs = append(objs, v)
	}
	d.calls = append(d.calls, c)
	return d.check("BindImageViews", objs...)
}

func (d *Device) BindSamplers(first uint32, samplers []gpu.Sampler) error {
	c := Call{Op: "BindSamplers", First: first}
	var objs []gpu.Object
	for _, s := range samplers {
		c.Handles = append(c.Handles, uint32(s))
		objs = append(objs, s)
	}
	d.calls = append(d.calls, c)
	return d.check("BindSamplers", objs...)
}

func (d *Device) SetViewport(first uint32, viewports []gpu.Viewport) {
	d.calls = append(d.calls, Call{Op: "SetViewport", First: first,
		Viewports: append([]gpu.Viewport(nil), viewports...)})
}

func (d *Device) SetScissor(first uint32, scissors []gpu.Region) {
	d.calls = append(d.calls, Call{Op: "SetScissor", First: first,
		Scissors: append([]gpu.Region(nil), scissors...)})
}

func (d *Device) DrawIndexed(prim gpu.Primitive, indexType gpu.IndexType, indices gpu.Range,
	instances gpu.Range, baseVertex int32) error {
	d.calls = append(d.calls, Call{Op: "DrawIndexed", Primitive: prim, IndexType: indexType,
		Indices: indices, Instances: instances, BaseVertex: baseVertex})
	return d.check("DrawIndexed")
}
