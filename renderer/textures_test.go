// renderer/textures_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"testing"

	"github.com/mmp/imrender/gpu"
)

func TestTextureRegistry(t *testing.T) {
	reg := NewTextureRegistry()

	if _, ok := reg.Get(0); ok {
		t.Errorf("zero TextureID found in empty registry")
	}

	a := reg.Insert(Texture{Image: 1, View: 2, Sampler: 3})
	b := reg.Insert(Texture{Image: 4, View: 5, Sampler: 6})
	if a == 0 || b == 0 || a == b {
		t.Fatalf("got ids %v and %v, expected distinct non-zero ids", a, b)
	}
	if reg.Len() != 2 {
		t.Errorf("got Len %d, expected 2", reg.Len())
	}
	if tex, ok := reg.Get(b); !ok || tex.View != 5 {
		t.Errorf("Get(%v): got %+v, %v", b, tex, ok)
	}

	if tex, ok := reg.Remove(a); !ok || tex.Image != 1 {
		t.Errorf("Remove(%v): got %+v, %v", a, tex, ok)
	}
	if _, ok := reg.Remove(a); ok {
		t.Errorf("second Remove(%v) succeeded", a)
	}
	if _, ok := reg.Get(a); ok {
		t.Errorf("Get of removed id %v succeeded", a)
	}

	// The freed slot is reused with a new generation; the stale id must
	// not find the new texture.
	c := reg.Insert(Texture{Image: 7, View: 8, Sampler: 9})
	if c == a {
		t.Errorf("reused slot returned the stale id %v", a)
	}
	if uint32(c) != uint32(a) {
		t.Errorf("got slot bits %d, expected reuse of %d", uint32(c), uint32(a))
	}
	if _, ok := reg.Get(a); ok {
		t.Errorf("stale id %v found texture in reused slot", a)
	}
	if tex, ok := reg.Get(c); !ok || tex.Sampler != 9 {
		t.Errorf("Get(%v): got %+v, %v", c, tex, ok)
	}

	// Ids past the end of the slot array.
	if _, ok := reg.Get(makeTextureID(100, 0)); ok {
		t.Errorf("out of range id found")
	}

	seen := make(map[TextureID]gpu.Image)
	for id, tex := range reg.All() {
		seen[id] = tex.Image
	}
	if len(seen) != 2 || seen[b] != 4 || seen[c] != 7 {
		t.Errorf("All: got %v", seen)
	}
}

func TestTextureIDLayout(t *testing.T) {
	id := makeTextureID(3, 5)
	if uint64(id) != 5<<32|4 {
		t.Errorf("got %#x, expected %#x", uint64(id), uint64(5<<32|4))
	}
	idx, gen, ok := id.slot()
	if !ok || idx != 3 || gen != 5 {
		t.Errorf("slot: got %d, %d, %v, expected 3, 5, true", idx, gen, ok)
	}
	if _, _, ok := TextureID(7 << 32).slot(); ok {
		t.Errorf("id with zero index bits reported as valid")
	}
}
