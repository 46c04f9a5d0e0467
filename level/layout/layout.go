// Package layout regenerates the engine-consumed tables of one object
// class: the packed instance records, the per-model (offset, count) index
// table and the packed per-vertex color data.
//
// The engine reads these blobs directly, so the table always has exactly
// one pair per model in model-list order and is zero padded to ALIGNMENT.
// Tables are never patched, only rebuilt from the model and instance lists.
package layout

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/pkg/errors"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/utils"
)

const (
	PAIR_SIZE = 8
	ALIGNMENT = 0x80
)

type Layout struct {
	// Instances in blob order: grouped by model in model-list order, list
	// order kept inside a group, unresolved instances last.
	Instances []*level.Instance
	Index     []level.IndexEntry

	InstanceRaw []byte
	IndexRaw    []byte
	ColorRaw    []byte

	// Instances whose model id is not in the model list.
	Orphans int
}

func Build(models []level.Model, instances []*level.Instance) (*Layout, error) {
	position := make(map[level.ModelId]int, len(models))
	for i, m := range models {
		if _, dup := position[m.Base().Id]; !dup {
			position[m.Base().Id] = i
		}
	}

	buckets := make([][]*level.Instance, len(models))
	orphans := make([]*level.Instance, 0)
	for _, inst := range instances {
		if pos, ok := position[inst.ModelId]; ok {
			buckets[pos] = append(buckets[pos], inst)
		} else {
			orphans = append(orphans, inst)
		}
	}

	l := &Layout{
		Instances:   make([]*level.Instance, 0, len(instances)),
		Index:       make([]level.IndexEntry, len(models)),
		InstanceRaw: make([]byte, len(instances)*RECORD_SIZE),
		ColorRaw:    make([]byte, 0),
		Orphans:     len(orphans),
	}

	for i, bucket := range buckets {
		if len(bucket) != 0 {
			l.Index[i] = level.IndexEntry{
				Offset: uint32(len(l.Instances) * RECORD_SIZE),
				Count:  uint32(len(bucket)),
			}
		}
		l.Instances = append(l.Instances, bucket...)
	}
	l.Instances = append(l.Instances, orphans...)

	for i, inst := range l.Instances {
		var colorOffset uint32
		l.ColorRaw, colorOffset = appendColors(l.ColorRaw, inst.Colors)
		if err := EncodeInstance(l.InstanceRaw[i*RECORD_SIZE:], inst, colorOffset); err != nil {
			return nil, err
		}
	}

	l.IndexRaw = EncodeIndex(l.Index)
	return l, nil
}

// EncodeIndex packs pairs and pads the result to ALIGNMENT.
func EncodeIndex(entries []level.IndexEntry) []byte {
	raw := make([]byte, utils.AlignUp(len(entries)*PAIR_SIZE, ALIGNMENT))
	for i, e := range entries {
		binary.LittleEndian.PutUint32(raw[i*PAIR_SIZE:], e.Offset)
		binary.LittleEndian.PutUint32(raw[i*PAIR_SIZE+4:], e.Count)
	}
	return raw
}

// DecodeIndex reads count pairs from a padded table.
func DecodeIndex(raw []byte, count int) ([]level.IndexEntry, error) {
	if count*PAIR_SIZE > len(raw) {
		return nil, errors.Errorf("index table of 0x%x bytes can't hold %d pairs", len(raw), count)
	}
	entries := make([]level.IndexEntry, count)
	for i := range entries {
		entries[i].Offset = binary.LittleEndian.Uint32(raw[i*PAIR_SIZE:])
		entries[i].Count = binary.LittleEndian.Uint32(raw[i*PAIR_SIZE+4:])
	}
	return entries, nil
}

// Apply rebuilds the derived tables of cd and reorders its instance list
// to match the blob.
func Apply(cd *level.ClassData) (*Layout, error) {
	// second pass only when the model list changed while we were building
	for attempt := 0; attempt < 2; attempt++ {
		models := len(cd.Models)
		l, err := Build(cd.Models, cd.Instances)
		if err != nil {
			return nil, err
		}
		cd.Instances = l.Instances
		cd.Index = l.Index
		cd.IndexRaw = l.IndexRaw
		cd.InstanceRaw = l.InstanceRaw
		cd.ColorRaw = l.ColorRaw
		if models == len(cd.Models) && len(cd.Index) == len(cd.Models) {
			return l, nil
		}
	}
	return nil, errors.New("model list changed during layout")
}

// Consistent reports whether the derived tables of cd are exactly what
// Build would produce from its model and instance lists.
func Consistent(cd *level.ClassData) bool {
	if len(cd.Index) != len(cd.Models) ||
		len(cd.IndexRaw) != utils.AlignUp(len(cd.Models)*PAIR_SIZE, ALIGNMENT) ||
		len(cd.InstanceRaw) != len(cd.Instances)*RECORD_SIZE {
		return false
	}
	l, err := Build(cd.Models, cd.Instances)
	if err != nil {
		return false
	}
	return slices.Equal(l.Instances, cd.Instances) &&
		slices.Equal(l.Index, cd.Index) &&
		bytes.Equal(l.IndexRaw, cd.IndexRaw) &&
		bytes.Equal(l.InstanceRaw, cd.InstanceRaw) &&
		bytes.Equal(l.ColorRaw, cd.ColorRaw)
}
