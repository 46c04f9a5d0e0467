// Package idspace resolves model id collisions, both when a source model
// list is merged into a destination and when two classes that share one
// numeric namespace end up using the same id.
package idspace

import (
	"github.com/pkg/errors"

	"github.com/mogaika/levelport/level"
)

// Mapping maps a source model id to its destination id.
type Mapping map[level.ModelId]level.ModelId

func (m Mapping) Identity() bool {
	for from, to := range m {
		if from != to {
			return false
		}
	}
	return true
}

// Remapped returns only the entries that changed.
func (m Mapping) Remapped() Mapping {
	res := make(Mapping)
	for from, to := range m {
		if from != to {
			res[from] = to
		}
	}
	return res
}

type idSet map[level.ModelId]struct{}

func newIdSet(ids []level.ModelId) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id level.ModelId) bool {
	_, ok := s[id]
	return ok
}

// next returns the lowest id >= from that is not used.
func (s idSet) next(from level.ModelId) (level.ModelId, error) {
	if from < level.MODEL_ID_MIN {
		return 0, errors.Errorf("negative id floor %d", from)
	}
	for id := from; ; id++ {
		if !s.has(id) {
			return id, nil
		}
		if id == level.MODEL_ID_MAX {
			return 0, errors.Wrapf(level.ErrIdSpaceExhausted, "model ids from %d", from)
		}
	}
}

// Reconcile keeps every source id that is free in the destination and gives
// each colliding id the next unused id at or above floor. Kept ids are
// reserved before any remap is handed out, so a remap never lands on an id
// a later source model keeps. Duplicate source ids map once.
func Reconcile(source, destination []level.ModelId, floor level.ModelId) (Mapping, error) {
	used := newIdSet(destination)
	mapping := make(Mapping, len(source))
	colliding := make([]level.ModelId, 0)

	for _, id := range source {
		if _, done := mapping[id]; done {
			continue
		}
		if used.has(id) {
			colliding = append(colliding, id)
			// placeholder so duplicates of a colliding id are not queued twice
			mapping[id] = id
			continue
		}
		mapping[id] = id
		used[id] = struct{}{}
	}

	next := floor
	for _, id := range colliding {
		to, err := used.next(next)
		if err != nil {
			return nil, err
		}
		mapping[id] = to
		used[to] = struct{}{}
		next = to + 1
		if to == level.MODEL_ID_MAX {
			next = to
		}
	}
	return mapping, nil
}
