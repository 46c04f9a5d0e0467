package merge

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/integrity"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/status"
	"github.com/mogaika/levelport/utils"
)

type ClassSummary struct {
	Class     level.Class `yaml:"class"`
	Flags     Flags       `yaml:"flags"`
	Error     string      `yaml:"error,omitempty"`
	Models    int         `yaml:"models"`
	Instances int         `yaml:"instances"`
	Groups    int         `yaml:"groups"`

	Remapped   map[level.ModelId]level.ModelId `yaml:"remapped,omitempty"`
	Rejections Rejections                      `yaml:"rejections,omitempty"`
}

// Summary describes a migration run. It is written as the yaml report.
type Summary struct {
	RunId       string `yaml:"run_id"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`

	Classes          []ClassSummary    `yaml:"classes"`
	Rejections       Rejections        `yaml:"rejections,omitempty"`
	LightGroupOffset uint16            `yaml:"light_group_offset"`
	Lights           int               `yaml:"lights"`
	TexturesImported int               `yaml:"textures_imported"`
	TexturesReused   int               `yaml:"textures_reused"`
	Integrity        *integrity.Report `yaml:"integrity"`
}

// Failed returns the classes that could not be merged.
func (s *Summary) Failed() []level.Class {
	res := make([]level.Class, 0)
	for _, cs := range s.Classes {
		if cs.Error != "" {
			res = append(res, cs.Class)
		}
	}
	return res
}

// Migrate runs plan against dst: lights, every class merge in plan order,
// then the integrity pass and layout regeneration. A failing class is
// recorded in the summary and the run goes on with the next one.
func Migrate(src, dst *level.Container, plan *Plan, log *zap.Logger, st *status.Stream) (*Summary, error) {
	log = utils.OrNop(log)
	ns := plan.Namespaces
	if ns == nil {
		ns = level.DefaultNamespaces()
	}
	if err := ns.Validate(); err != nil {
		return nil, errors.Wrap(err, "namespaces")
	}

	sum := &Summary{
		RunId:       uuid.NewString(),
		Source:      src.Name,
		Destination: dst.Name,
		Rejections:  make(Rejections),
	}
	log = log.With(zap.String("run", sum.RunId))
	log.Info("migration started", zap.String("source", src.Name), zap.String("destination", dst.Name))

	if plan.ImportLights {
		sum.LightGroupOffset = ImportLights(src, dst)
		sum.Lights = len(src.Lights)
		st.Info("imported %d lights, group offset %d", sum.Lights, sum.LightGroupOffset)
	}

	for i, cp := range plan.Classes {
		st.Progress(float32(i)/float32(len(plan.Classes)+1), "merging %v", cp.Class)

		opts := cp.Options
		opts.Namespaces = ns
		opts.LightGroupOffset = sum.LightGroupOffset

		cs := ClassSummary{Class: cp.Class, Flags: opts.Flags}
		res, err := MergeClass(cp.Class, src, dst, opts, log)
		if err != nil {
			cs.Error = err.Error()
			log.Warn("class skipped", zap.Stringer("class", cp.Class), zap.Error(err))
			st.Warn("%v skipped: %v", cp.Class, err)
			sum.Classes = append(sum.Classes, cs)
			continue
		}

		cs.Models = res.Models
		cs.Instances = res.Instances
		cs.Groups = res.Groups
		cs.Rejections = res.Rejections
		if remapped := res.Mapping.Remapped(); len(remapped) != 0 {
			cs.Remapped = remapped
		}
		sum.Rejections.Add(res.Rejections)
		sum.TexturesImported += res.TexturesImported
		sum.TexturesReused += res.TexturesReused
		sum.Classes = append(sum.Classes, cs)
	}

	st.Progress(float32(len(plan.Classes))/float32(len(plan.Classes)+1), "validating %s", dst.Name)
	sum.Integrity = integrity.ValidateAndRepair(dst, integrity.Options{
		Namespaces:  ns,
		SharedFloor: plan.SharedFloor,
	}, log)

	for _, cl := range level.Classes {
		if _, err := layout.Apply(dst.Class(cl)); err != nil {
			return sum, errors.Wrapf(err, "%v layout", cl)
		}
	}

	st.Progress(1, "migration done")
	log.Info("migration done",
		zap.Int("textures_imported", sum.TexturesImported),
		zap.Int("rejected", sum.Rejections.Total()),
		zap.Int("failed_classes", len(sum.Failed())))
	return sum, nil
}
