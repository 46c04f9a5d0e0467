// Package integrity checks a container for states the engine can not load
// and repairs the ones that have a safe automatic fix.
package integrity

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/idspace"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/utils"
)

type Options struct {
	// nil means level.DefaultNamespaces().
	Namespaces level.Namespaces
	// Repairs allocate model ids at or above this value.
	SharedFloor level.ModelId
}

type Report struct {
	TextureRefsClamped int             `yaml:"texture_refs_clamped"`
	LightGroupsClamped int             `yaml:"light_groups_clamped"`
	DuplicateRemaps    []idspace.Remap `yaml:"duplicate_remaps,omitempty"`
	SharedRemaps       []idspace.Remap `yaml:"shared_remaps,omitempty"`
	Rebuilt            []level.Class   `yaml:"rebuilt,omitempty"`

	// Problems left in place that may crash the engine.
	CrashRisks []string `yaml:"crash_risks,omitempty"`
	Errors     []string `yaml:"errors,omitempty"`
}

// Repaired reports whether the pass changed the container.
func (r *Report) Repaired() bool {
	return r.TextureRefsClamped != 0 || r.LightGroupsClamped != 0 ||
		len(r.DuplicateRemaps) != 0 || len(r.SharedRemaps) != 0 || len(r.Rebuilt) != 0
}

func (r *Report) risk(format string, a ...interface{}) {
	r.CrashRisks = append(r.CrashRisks, fmt.Sprintf(format, a...))
}

// ValidateAndRepair runs every check in a fixed order. Running it on its own
// output reports no repairs.
func ValidateAndRepair(c *level.Container, opts Options, log *zap.Logger) *Report {
	log = utils.OrNop(log)
	ns := opts.Namespaces
	if ns == nil {
		ns = level.DefaultNamespaces()
	}
	r := &Report{}

	r.TextureRefsClamped = ClampTextureRefs(c)
	if r.TextureRefsClamped != 0 {
		log.Warn("clamped texture references", zap.Int("refs", r.TextureRefsClamped))
	}

	for _, cl := range level.Classes {
		remaps, err := idspace.ReconcileDuplicates(c, ns, cl, opts.SharedFloor)
		r.DuplicateRemaps = append(r.DuplicateRemaps, remaps...)
		if err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%v duplicate ids: %v", cl, err))
			log.Error("duplicate model ids", zap.Stringer("class", cl), zap.Error(err))
		}
	}

	for _, n := range ns.Shared() {
		remaps, err := idspace.ReconcileShared(c, ns, n, opts.SharedFloor)
		r.SharedRemaps = append(r.SharedRemaps, remaps...)
		if err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("namespace %s: %v", n, err))
			log.Error("shared namespace ids", zap.String("namespace", string(n)), zap.Error(err))
		}
	}
	if n := len(r.DuplicateRemaps) + len(r.SharedRemaps); n != 0 {
		log.Warn("remapped colliding model ids", zap.Int("remaps", n))
	}

	r.LightGroupsClamped = ClampLightGroups(c)
	if r.LightGroupsClamped != 0 {
		log.Warn("clamped instance light groups", zap.Int("instances", r.LightGroupsClamped))
	}

	for _, cl := range level.Classes {
		checkReferences(c, cl, r)
	}

	for _, cl := range level.Classes {
		cd := c.Class(cl)
		if layout.Consistent(cd) {
			continue
		}
		l, err := layout.Apply(cd)
		if err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%v layout: %v", cl, err))
			log.Error("layout rebuild", zap.Stringer("class", cl), zap.Error(err))
			continue
		}
		r.Rebuilt = append(r.Rebuilt, cl)
		log.Debug("layout rebuilt", zap.Stringer("class", cl),
			zap.Int("instances", len(l.Instances)), zap.Int("orphans", l.Orphans))
	}

	for _, risk := range r.CrashRisks {
		log.Warn("crash risk", zap.String("detail", risk))
	}
	return r
}

// ClampTextureRefs moves every model texture reference into the texture
// list bounds, or to 0 when the container has no textures.
func ClampTextureRefs(c *level.Container) int {
	count := int32(len(c.Textures))
	clamped := 0
	for _, cl := range level.Classes {
		for _, m := range c.Class(cl).Models {
			refs := m.Base().Textures
			for i := range refs {
				id := refs[i].Id
				switch {
				case count == 0 || id < 0:
					id = 0
				case id >= count:
					id = count - 1
				}
				if id != refs[i].Id {
					refs[i].Id = id
					clamped++
				}
			}
		}
	}
	return clamped
}

// ClampLightGroups moves instance light groups past the last light group
// onto the last one and drops the derived tables of the touched classes.
func ClampLightGroups(c *level.Container) int {
	top := uint16(0)
	if n := c.LightGroupCount(); n > 0 {
		top = uint16(n - 1)
	}
	clamped := 0
	for _, cl := range level.Classes {
		cd := c.Class(cl)
		touched := false
		for _, inst := range cd.Instances {
			if inst.LightGroup > top {
				inst.LightGroup = top
				touched = true
				clamped++
			}
		}
		// light group is part of the instance record
		if touched {
			cd.Stale()
		}
	}
	return clamped
}

func checkReferences(c *level.Container, cl level.Class, r *Report) {
	cd := c.Class(cl)
	vertices := make(map[level.ModelId]int, len(cd.Models))
	for _, m := range cd.Models {
		if m.Class() != cl {
			r.risk("%v model %d is a %v model", cl, m.Base().Id, m.Class())
		}
		vertices[m.Base().Id] = level.VertexCount(m)
	}
	if len(c.Textures) == 0 {
		for _, m := range cd.Models {
			if len(m.Base().Textures) != 0 {
				r.risk("%v model %d references textures but the container has none", cl, m.Base().Id)
			}
		}
	}
	for _, inst := range cd.Instances {
		count, ok := vertices[inst.ModelId]
		if !ok {
			r.risk("%v instance %d (%s) references missing model %d", cl, inst.Id, inst.Name, inst.ModelId)
			continue
		}
		if len(inst.Colors) != count {
			r.risk("%v instance %d (%s) has %d colors for %d vertices", cl, inst.Id, inst.Name, len(inst.Colors), count)
		}
	}
}
