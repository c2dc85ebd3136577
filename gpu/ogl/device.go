// gpu/ogl/device.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package ogl implements gpu.Device using OpenGL 4.5 core profile and
// its direct state access entrypoints. An OpenGL context must be current
// on the calling thread when New is called and for all subsequent
// Device calls.
package ogl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mmp/imrender/gpu"
	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/util"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type objectKey struct {
	t gpu.ObjectType
	h uint32
}

type Device struct {
	lg *log.Logger
	// Objects that have been created and not yet deleted, along with the
	// number of bytes of GPU memory allocated for them.
	created map[objectKey]int

	scissorEnabled bool
}

var _ gpu.Device = (*Device)(nil)

// New initializes the OpenGL bindings for the current context.
func New(lg *log.Logger) (*Device, error) {
	lg.Info("Starting OpenGL 4.5 device initialization")
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	lg.Infof("OpenGL vendor %s renderer %s version %s", gl.GoStr(gl.GetString(gl.VENDOR)),
		gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION)))

	return &Device{
		lg:      lg,
		created: make(map[objectKey]int),
	}, nil
}

// Dispose deletes any objects that are still alive. Callers should have
// released everything they created; leftovers are logged.
func (d *Device) Dispose() {
	keys, _ := util.FlattenMap(d.created)
	slices.SortFunc(keys, func(a, b objectKey) int {
		return cmp.Or(cmp.Compare(a.t, b.t), cmp.Compare(a.h, b.h))
	})
	for _, k := range keys {
		d.lg.Warnf("deleting leaked %s %d", k.t, k.h)
		d.deleteObject(k)
	}
}

func (d *Device) deleteObject(k objectKey) {
	switch k.t {
	case gpu.ObjectShader:
		d.DeleteShader(gpu.Shader(k.h))
	case gpu.ObjectPipeline:
		d.DeletePipeline(gpu.Pipeline(k.h))
	case gpu.ObjectImage:
		d.DeleteImage(gpu.Image(k.h))
	case gpu.ObjectImageView:
		d.DeleteImageView(gpu.ImageView(k.h))
	case gpu.ObjectSampler:
		d.DeleteSampler(gpu.Sampler(k.h))
	case gpu.ObjectBuffer:
		d.DeleteBuffer(gpu.Buffer(k.h))
	case gpu.ObjectVertexArray:
		d.DeleteVertexArray(gpu.VertexArray(k.h))
	}
}

// createdObject records a newly created object. Images also report the
// total amount of image memory in use.
func (d *Device) createdObject(obj gpu.Object, bytes int) {
	d.created[objectKey{t: obj.ObjectType(), h: obj.Handle()}] = bytes

	if obj.ObjectType() == gpu.ObjectImage {
		reduce := func(k objectKey, bytes int, total int) int {
			return util.Select(k.t == gpu.ObjectImage, total+bytes, total)
		}
		total := util.ReduceMap[objectKey, int, int](d.created, reduce, 0)
		d.lg.Infof("Created image %d: %d bytes -> %.2f MiB of images total", obj.Handle(), bytes,
			float32(total)/(1024*1024))
	}
}

// deletedObject forgets the object and reports whether it was alive.
func (d *Device) deletedObject(t gpu.ObjectType, h uint32) bool {
	k := objectKey{t: t, h: h}
	if _, ok := d.created[k]; !ok {
		if h != 0 {
			d.lg.Warnf("deleting unknown %s %d", t, h)
		}
		return false
	}
	delete(d.created, k)
	return true
}

// check returns an invalid handle error for the first object that isn't
// alive. The zero handle is allowed and unbinds.
func (d *Device) check(op string, objs ...gpu.Object) error {
	for _, obj := range objs {
		if obj.Handle() == 0 {
			continue
		}
		if _, ok := d.created[objectKey{t: obj.ObjectType(), h: obj.Handle()}]; !ok {
			return gpu.NewError(op, gpu.ErrInvalidHandle, fmt.Sprintf("%s %d", obj.ObjectType(), obj.Handle()))
		}
	}
	return nil
}

// glError drains the OpenGL error queue and returns an error for the
// first error found. Creation ops report all errors as kind.
func glError(op string, kind error) error {
	var codes []string
	first := uint32(gl.NO_ERROR)
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if first == gl.NO_ERROR {
			first = e
		}
		codes = append(codes, glErrorString(e))
	}
	if first == gl.NO_ERROR {
		return nil
	}

	if kind == nil {
		switch first {
		case gl.OUT_OF_MEMORY:
			kind = gpu.ErrCreationFailed
		case gl.INVALID_OPERATION:
			kind = gpu.ErrInvalidHandle
		default:
			kind = gpu.ErrInvalidArgument
		}
	}
	return gpu.NewError(op, kind, strings.Join(codes, ", "))
}

func glErrorString(e uint32) string {
	switch e {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("GL error 0x%x", e)
	}
}

func (d *Device) SetObjectName(obj gpu.Object, name string) {
	if d.check("SetObjectName", obj) != nil || obj.Handle() == 0 {
		return
	}

	var identifier uint32
	switch obj.ObjectType() {
	case gpu.ObjectShader:
		identifier = gl.SHADER
	case gpu.ObjectPipeline:
		identifier = gl.PROGRAM
	case gpu.ObjectImage, gpu.ObjectImageView:
		identifier = gl.TEXTURE
	case gpu.ObjectSampler:
		identifier = gl.SAMPLER
	case gpu.ObjectBuffer:
		identifier = gl.BUFFER
	case gpu.ObjectVertexArray:
		identifier = gl.VERTEX_ARRAY
	default:
		return
	}
	label := gl.Str(name + "\x00")
	gl.ObjectLabel(identifier, obj.Handle(), int32(len(name)), label)
}
