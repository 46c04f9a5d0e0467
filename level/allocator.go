package level

import "github.com/pkg/errors"

const INSTANCE_ID_MAX = InstanceId(0xffff)

var ErrIdSpaceExhausted = errors.New("id space exhausted")

// Allocator tracks the next free ids of one container. Every merge into the
// container goes through it, so repeated merges never hand out an id twice.
type Allocator struct {
	models    map[Namespace]ModelId
	instances map[Class]InstanceId
}

func NewAllocator() *Allocator {
	return &Allocator{
		models:    make(map[Namespace]ModelId),
		instances: make(map[Class]InstanceId),
	}
}

// ModelFloor returns the first id a remap in ns may use.
func (a *Allocator) ModelFloor(ns Namespace, floor ModelId) ModelId {
	if next, ok := a.models[ns]; ok && next > floor {
		return next
	}
	return floor
}

func (a *Allocator) CommitModel(ns Namespace, id ModelId) {
	if id == MODEL_ID_MAX {
		a.models[ns] = MODEL_ID_MAX
		return
	}
	if next, ok := a.models[ns]; !ok || id+1 > next {
		a.models[ns] = id + 1
	}
}

// NextInstance returns the lowest id at or above max(floor, last issued + 1)
// that is not in used, and marks it used.
func (a *Allocator) NextInstance(c Class, floor InstanceId, used map[InstanceId]struct{}) (InstanceId, error) {
	id := floor
	if next, ok := a.instances[c]; ok && next > id {
		id = next
	}
	for {
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			if id == INSTANCE_ID_MAX {
				a.instances[c] = INSTANCE_ID_MAX
			} else {
				a.instances[c] = id + 1
			}
			return id, nil
		}
		if id == INSTANCE_ID_MAX {
			return 0, errors.Wrapf(ErrIdSpaceExhausted, "instances of class %v from 0x%x", c, floor)
		}
		id++
	}
}

func (a *Allocator) Reset() {
	a.models = make(map[Namespace]ModelId)
	a.instances = make(map[Class]InstanceId)
}
