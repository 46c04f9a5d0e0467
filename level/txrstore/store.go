// Package txrstore imports textures into a container without duplicating
// assets the container already has.
package txrstore

import (
	"github.com/mogaika/levelport/level"
)

type key struct {
	width, height uint16
	enginePtr     uint32
	size          int
}

func keyOf(t *level.Texture) key {
	return key{width: t.Width, height: t.Height, enginePtr: t.EnginePtr, size: len(t.Data)}
}

// Store is bound to one destination container. Two textures are considered
// the same asset when width, height, engine pointer tag and payload length
// match; payload bytes are never compared.
type Store struct {
	dst     *level.Container
	index   map[key]int
	indexed int

	Hits   int
	Misses int
}

func New(dst *level.Container) *Store {
	s := &Store{dst: dst}
	s.reindex()
	return s
}

func (s *Store) reindex() {
	s.index = make(map[key]int, len(s.dst.Textures))
	for id, t := range s.dst.Textures {
		k := keyOf(t)
		if _, ok := s.index[k]; !ok {
			s.index[k] = id
		}
	}
	s.indexed = len(s.dst.Textures)
}

// Import returns the id of an equivalent destination texture, or appends a
// deep copy of tex and returns its new id.
func (s *Store) Import(tex *level.Texture) int {
	if s.indexed != len(s.dst.Textures) {
		s.reindex()
	}
	k := keyOf(tex)
	if id, ok := s.index[k]; ok {
		s.Hits++
		return id
	}

	id := len(s.dst.Textures)
	s.dst.Textures = append(s.dst.Textures, tex.Clone())
	s.index[k] = id
	s.indexed++
	s.Misses++
	return id
}

// ImportRefs rewrites refs that point into src textures so they point into
// the destination, importing what is missing. Refs outside src bounds are
// left untouched and reported back.
func (s *Store) ImportRefs(src []*level.Texture, refs []level.TextureRef) (invalid int) {
	for i := range refs {
		id := refs[i].Id
		if id < 0 || int(id) >= len(src) {
			invalid++
			continue
		}
		refs[i].Id = int32(s.Import(src[id]))
	}
	return invalid
}
