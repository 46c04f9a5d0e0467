package merge

import (
	"github.com/pkg/errors"

	"github.com/mogaika/levelport/config"
	"github.com/mogaika/levelport/level"
)

type ClassPlan struct {
	Class   level.Class
	Options Options
}

// Plan is one migration run: the classes to merge in order and the shared
// settings of the repair passes that follow.
type Plan struct {
	Classes      []ClassPlan
	Namespaces   level.Namespaces
	SharedFloor  level.ModelId
	ImportLights bool
}

func NamespacesFromConfig(raw map[string][]string) (level.Namespaces, error) {
	if len(raw) == 0 {
		return level.DefaultNamespaces(), nil
	}
	ns := make(level.Namespaces, len(raw))
	for name, classes := range raw {
		for _, cn := range classes {
			c, err := level.ParseClass(cn)
			if err != nil {
				return nil, errors.Wrapf(err, "namespace %q", name)
			}
			ns[level.Namespace(name)] = append(ns[level.Namespace(name)], c)
		}
	}
	if err := ns.Validate(); err != nil {
		return nil, err
	}
	return ns, nil
}

// PlanFromConfig builds a plan covering every class whose import list is
// not empty, in level.Classes order.
func PlanFromConfig(cfg *config.Config) (*Plan, error) {
	ns, err := NamespacesFromConfig(cfg.Merge.Namespaces)
	if err != nil {
		return nil, err
	}
	if cfg.Merge.SharedFloor < 0 || cfg.Merge.SharedFloor > int(level.MODEL_ID_MAX) {
		return nil, errors.Errorf("shared_floor %d out of model id range", cfg.Merge.SharedFloor)
	}

	plan := &Plan{
		Namespaces:   ns,
		SharedFloor:  level.ModelId(cfg.Merge.SharedFloor),
		ImportLights: cfg.Merge.Lights,
	}
	for _, c := range level.Classes {
		cc, _ := cfg.Class(c.String())
		flags, err := ParseFlags(cc.Import)
		if err != nil {
			return nil, errors.Wrapf(err, "%v", c)
		}
		if flags&(UseSourceModels|UseSourcePlacements) == 0 {
			continue
		}
		if cc.ModelFloor < 0 || cc.ModelFloor > int(level.MODEL_ID_MAX) {
			return nil, errors.Errorf("%v: model_floor %d out of range", c, cc.ModelFloor)
		}
		if cc.InstanceFloor < 0 || cc.InstanceFloor > int(level.INSTANCE_ID_MAX) {
			return nil, errors.Errorf("%v: instance_floor %d out of range", c, cc.InstanceFloor)
		}
		plan.Classes = append(plan.Classes, ClassPlan{
			Class: c,
			Options: Options{
				Flags:         flags,
				ModelFloor:    level.ModelId(cc.ModelFloor),
				InstanceFloor: level.InstanceId(cc.InstanceFloor),
				Namespaces:    ns,
			},
		})
	}
	return plan, nil
}
