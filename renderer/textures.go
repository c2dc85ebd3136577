// renderer/textures.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"iter"

	"github.com/mmp/imrender/gpu"
)

// TextureID identifies a texture in a TextureRegistry. The low 32 bits
// hold the slot index plus one and the high 32 bits hold the slot's
// generation, so that ids of removed textures are never confused with
// textures later stored in the same slot. The zero TextureID is invalid.
type TextureID uint64

func makeTextureID(index, generation uint32) TextureID {
	return TextureID(uint64(generation)<<32 | uint64(index+1))
}

func (id TextureID) slot() (index, generation uint32, ok bool) {
	lo := uint32(id)
	if lo == 0 {
		return 0, 0, false
	}
	return lo - 1, uint32(id >> 32), true
}

func (id TextureID) String() string {
	if idx, gen, ok := id.slot(); ok {
		return fmt.Sprintf("texture %d (gen %d)", idx, gen)
	}
	return "texture <invalid>"
}

// Texture is the GPU state needed to sample from a texture in a draw
// command.
type Texture struct {
	Image   gpu.Image
	View    gpu.ImageView
	Sampler gpu.Sampler
}

type textureSlot struct {
	tex        Texture
	generation uint32
	live       bool
}

// TextureRegistry maps TextureIDs to Textures. It is not safe for
// concurrent use; registration must be serialized with rendering.
type TextureRegistry struct {
	slots []textureSlot
	free  []uint32
	n     int
}

func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{}
}

// Insert stores the texture and returns a new id for it.
func (t *TextureRegistry) Insert(tex Texture) TextureID {
	t.n++
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		s := &t.slots[idx]
		s.tex, s.live = tex, true
		return makeTextureID(idx, s.generation)
	}
	t.slots = append(t.slots, textureSlot{tex: tex, live: true})
	return makeTextureID(uint32(len(t.slots)-1), 0)
}

func (t *TextureRegistry) lookup(id TextureID) *textureSlot {
	idx, gen, ok := id.slot()
	if !ok || int(idx) >= len(t.slots) {
		return nil
	}
	if s := &t.slots[idx]; s.live && s.generation == gen {
		return s
	}
	return nil
}

func (t *TextureRegistry) Get(id TextureID) (Texture, bool) {
	if s := t.lookup(id); s != nil {
		return s.tex, true
	}
	return Texture{}, false
}

// Remove deletes the texture from the registry and returns it so that
// the caller can release its GPU resources.
func (t *TextureRegistry) Remove(id TextureID) (Texture, bool) {
	s := t.lookup(id)
	if s == nil {
		return Texture{}, false
	}
	tex := s.tex
	s.tex, s.live = Texture{}, false
	s.generation++
	idx, _, _ := id.slot()
	t.free = append(t.free, idx)
	t.n--
	return tex, true
}

// Len returns the number of textures in the registry.
func (t *TextureRegistry) Len() int {
	return t.n
}

// All iterates over the registered textures in slot order.
func (t *TextureRegistry) All() iter.Seq2[TextureID, Texture] {
	return func(yield func(TextureID, Texture) bool) {
		for i, s := range t.slots {
			if s.live && !yield(makeTextureID(uint32(i), s.generation), s.tex) {
				return
			}
		}
	}
}
