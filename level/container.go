package level

import (
	"fmt"
	"sort"
)

type IndexEntry struct {
	Offset uint32 // byte offset of the first instance record of the model
	Count  uint32
}

// ClassData holds the collections of one object class together with the
// engine-consumed blobs derived from them.
type ClassData struct {
	Models    []Model
	Instances []*Instance

	Index       []IndexEntry
	IndexRaw    []byte // Index packed and padded to the alignment unit
	InstanceRaw []byte
	ColorRaw    []byte
}

// Stale drops derived tables. They are regenerated by the layout builder.
func (cd *ClassData) Stale() {
	cd.Index = nil
	cd.IndexRaw = nil
	cd.InstanceRaw = nil
	cd.ColorRaw = nil
}

type Container struct {
	Name    string
	Version uint16
	Layout  VertexLayout

	Textures []*Texture
	Lights   []*Light
	Groups   []*Group
	Classes  [CLASS_COUNT]ClassData

	Alloc *Allocator
}

func NewContainer(name string) *Container {
	return &Container{
		Name:   name,
		Layout: DefaultLayout,
		Alloc:  NewAllocator(),
	}
}

func (c *Container) Class(cl Class) *ClassData {
	return &c.Classes[cl]
}

// Model returns the model with id and its position in the class model list.
func (c *Container) Model(cl Class, id ModelId) (Model, int) {
	for i, m := range c.Classes[cl].Models {
		if m.Base().Id == id {
			return m, i
		}
	}
	return nil, -1
}

func (c *Container) ModelIds(cl Class) []ModelId {
	models := c.Classes[cl].Models
	ids := make([]ModelId, len(models))
	for i, m := range models {
		ids[i] = m.Base().Id
	}
	return ids
}

// NamespaceIds returns every model id in use by the classes of ns.
func (c *Container) NamespaceIds(ns Namespaces, n Namespace) []ModelId {
	ids := make([]ModelId, 0)
	for _, cl := range ns[n] {
		ids = append(ids, c.ModelIds(cl)...)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Container) InstanceIds(cl Class) map[InstanceId]struct{} {
	used := make(map[InstanceId]struct{}, len(c.Classes[cl].Instances))
	for _, inst := range c.Classes[cl].Instances {
		used[inst.Id] = struct{}{}
	}
	return used
}

func (c *Container) LightGroupCount() int {
	count := 0
	for _, l := range c.Lights {
		if int(l.Group)+1 > count {
			count = int(l.Group) + 1
		}
	}
	return count
}

// RemapModelId renames a model of class cl and every reference to it:
// instances of the same class and groups of the same class.
func (c *Container) RemapModelId(cl Class, from, to ModelId) error {
	m, _ := c.Model(cl, from)
	if m == nil {
		return fmt.Errorf("%v model %d not found", cl, from)
	}
	m.Base().Id = to
	for _, inst := range c.Classes[cl].Instances {
		if inst.ModelId == from {
			inst.ModelId = to
		}
	}
	for _, g := range c.Groups {
		if g.Class != cl {
			continue
		}
		for i, id := range g.Models {
			if id == from {
				g.Models[i] = to
			}
		}
	}
	c.Classes[cl].Stale()
	return nil
}

func (c *Container) String() string {
	s := fmt.Sprintf("container %q v%d layout %v: %d textures, %d lights, %d groups",
		c.Name, c.Version, c.Layout, len(c.Textures), len(c.Lights), len(c.Groups))
	for _, cl := range Classes {
		cd := c.Class(cl)
		s += fmt.Sprintf("; %v %d models %d instances", cl, len(cd.Models), len(cd.Instances))
	}
	return s
}
