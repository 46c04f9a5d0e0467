// Package merge transplants models, placements and textures of one object
// class from a source container into a destination container.
package merge

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/idspace"
	"github.com/mogaika/levelport/level/instfilter"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/level/txrstore"
	"github.com/mogaika/levelport/utils"
)

var ErrSourceClassEmpty = errors.New("source class has nothing to import")

// MergeClass imports one class of src into dst according to opts.
//
// Problems with single models or instances are counted in the result
// rejections and do not stop the merge. An error is returned only when the
// class can not be merged at all, in which case dst is left untouched.
func MergeClass(class level.Class, src, dst *level.Container, opts Options, log *zap.Logger) (*Result, error) {
	log = utils.OrNop(log).With(zap.Stringer("class", class))
	res := newResult(class)

	useModels := opts.Flags.Has(UseSourceModels)
	usePlacements := opts.Flags.Has(UseSourcePlacements)
	if !useModels && !usePlacements {
		log.Debug("nothing requested")
		return res, nil
	}

	ns := opts.namespaces()
	if err := ns.Validate(); err != nil {
		return nil, errors.Wrap(err, "namespaces")
	}

	srcData := src.Class(class)
	if useModels && len(srcData.Models) == 0 {
		return nil, errors.Wrapf(ErrSourceClassEmpty, "%v models", class)
	}
	if usePlacements && len(srcData.Instances) == 0 {
		return nil, errors.Wrapf(ErrSourceClassEmpty, "%v placements", class)
	}

	var models []level.Model
	if useModels {
		models = filterModels(class, srcData.Models, res.Rejections, log)
		if len(models) == 0 {
			return nil, errors.Wrapf(ErrSourceClassEmpty, "%v: every source model rejected", class)
		}
	}

	replaceModels := opts.Flags.Has(ReplaceExisting) && useModels && usePlacements

	// everything that can fail runs before dst is modified
	var prep *preparedModels
	if useModels {
		var err error
		if prep, err = prepareModels(class, models, dst, opts, replaceModels); err != nil {
			return nil, err
		}
	}

	dstData := dst.Class(class)
	if opts.Flags.Has(ReplaceExisting) {
		dropped := len(dstData.Instances)
		dstData.Instances = nil
		if replaceModels {
			dropped += len(dstData.Models)
			dstData.Models = nil
			dst.Groups = removeGroups(dst.Groups, class)
		}
		log.Debug("replaced destination content", zap.Int("dropped", dropped))
	}

	store := txrstore.New(dst)
	if useModels {
		commitModels(class, prep, src, dst, store, opts, res, log)
		res.Groups = importGroups(class, src, dst, res.Mapping)
	} else {
		identityMapping(class, src, dst, res.Mapping)
	}

	if usePlacements {
		importInstances(class, srcData.Instances, dst, opts, res, log)
	}

	res.TexturesImported = store.Misses
	res.TexturesReused = store.Hits
	dstData.Stale()

	log.Info("class merged",
		zap.Int("models", res.Models),
		zap.Int("instances", res.Instances),
		zap.Int("remapped", len(res.Mapping.Remapped())),
		zap.Int("rejected", res.Rejections.Total()))
	return res, nil
}

func reject(rj Rejections, log *zap.Logger, reason Reason, fields ...zap.Field) {
	rj[reason]++
	log.Debug("rejected", append(fields, zap.String("reason", string(reason)))...)
}

// filterModels drops source models that can not be imported as class.
func filterModels(class level.Class, models []level.Model, rj Rejections, log *zap.Logger) []level.Model {
	res := make([]level.Model, 0, len(models))
	seen := make(map[level.ModelId]struct{}, len(models))
	for _, m := range models {
		id := m.Base().Id
		if m.Class() != class {
			reject(rj, log, RejectSubtypeMismatch, zap.Int16("model", int16(id)), zap.Stringer("variant", m.Class()))
			continue
		}
		if id < level.MODEL_ID_MIN {
			reject(rj, log, RejectMissingModel, zap.Int16("model", int16(id)))
			continue
		}
		if _, dup := seen[id]; dup {
			reject(rj, log, RejectDuplicateModel, zap.Int16("model", int16(id)))
			continue
		}
		valid := true
		for _, mesh := range m.Meshes() {
			if err := mesh.Validate(); err != nil {
				reject(rj, log, RejectInvalidMesh, zap.Int16("model", int16(id)), zap.Error(err))
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, m)
	}
	return res
}

type preparedModels struct {
	clones  []level.Model
	mapping idspace.Mapping
}

// prepareModels reconciles source ids against the destination namespace and
// converts deep copies of models to the destination vertex layout.
func prepareModels(class level.Class, models []level.Model, dst *level.Container,
	opts Options, replacing bool) (*preparedModels, error) {

	ns := opts.namespaces()
	n := ns.Of(class)

	taken := make([]level.ModelId, 0)
	for _, cl := range ns[n] {
		if cl == class && replacing {
			continue
		}
		taken = append(taken, dst.ModelIds(cl)...)
	}
	if len(ns[n]) == 0 && !replacing {
		taken = append(taken, dst.ModelIds(class)...)
	}

	srcIds := make([]level.ModelId, len(models))
	for i, m := range models {
		srcIds[i] = m.Base().Id
	}
	floor := dst.Alloc.ModelFloor(n, opts.ModelFloor)
	mapping, err := idspace.Reconcile(srcIds, taken, floor)
	if err != nil {
		return nil, errors.Wrapf(err, "%v model ids", class)
	}

	clones := make([]level.Model, 0, len(models))
	for _, m := range models {
		clone := m.Clone()
		b := clone.Base()
		for _, mesh := range clone.Meshes() {
			if err := mesh.ConvertLayout(dst.Layout); err != nil {
				return nil, errors.Wrapf(err, "%v model %d: convert to %v", class, b.Id, dst.Layout)
			}
		}
		b.Layout = dst.Layout
		clones = append(clones, clone)
	}
	return &preparedModels{clones: clones, mapping: mapping}, nil
}

func commitModels(class level.Class, prep *preparedModels, src, dst *level.Container,
	store *txrstore.Store, opts Options, res *Result, log *zap.Logger) {

	n := opts.namespaces().Of(class)
	mapping := prep.mapping
	dstData := dst.Class(class)
	for _, clone := range prep.clones {
		b := clone.Base()
		from := b.Id

		if opts.Flags.Has(UseSourceTextures) {
			if invalid := store.ImportRefs(src.Textures, b.Textures); invalid != 0 {
				log.Warn("model references missing source textures",
					zap.Int16("model", int16(from)), zap.Int("refs", invalid))
			}
		}

		if opts.Flags.Has(PreserveOriginalIds) && mapping[from] != from {
			if _, pos := dst.Model(class, from); pos >= 0 {
				dstData.Models[pos] = clone
				mapping[from] = from
				res.Models++
				log.Debug("model overwritten", zap.Int16("model", int16(from)))
				continue
			}
		}

		b.Id = mapping[from]
		if b.Id != from {
			dst.Alloc.CommitModel(n, b.Id)
			log.Debug("model remapped", zap.Int16("from", int16(from)), zap.Int16("to", int16(b.Id)))
		}
		dstData.Models = append(dstData.Models, clone)
		res.Models++
	}

	for from, to := range mapping {
		res.Mapping[from] = to
	}
}

// identityMapping maps every source model id the destination class already
// defines to itself, for merges that reuse destination models.
func identityMapping(class level.Class, src, dst *level.Container, mapping idspace.Mapping) {
	have := make(map[level.ModelId]struct{})
	for _, id := range dst.ModelIds(class) {
		have[id] = struct{}{}
	}
	for _, id := range src.ModelIds(class) {
		if _, ok := have[id]; ok {
			mapping[id] = id
		}
	}
	for _, inst := range src.Class(class).Instances {
		if _, ok := have[inst.ModelId]; ok {
			mapping[inst.ModelId] = inst.ModelId
		}
	}
}

func importGroups(class level.Class, src, dst *level.Container, mapping idspace.Mapping) int {
	byName := make(map[string]*level.Group)
	for _, g := range dst.Groups {
		if g.Class == class {
			byName[g.Name] = g
		}
	}

	imported := 0
	for _, g := range src.Groups {
		if g.Class != class {
			continue
		}
		target, ok := byName[g.Name]
		if !ok {
			target = &level.Group{Name: g.Name, Class: class}
			dst.Groups = append(dst.Groups, target)
			byName[g.Name] = target
		}
		have := make(map[level.ModelId]struct{}, len(target.Models))
		for _, id := range target.Models {
			have[id] = struct{}{}
		}
		for _, id := range g.Models {
			to, ok := mapping[id]
			if !ok {
				continue
			}
			if _, dup := have[to]; !dup {
				target.Models = append(target.Models, to)
				have[to] = struct{}{}
			}
		}
		imported++
	}
	return imported
}

func removeGroups(groups []*level.Group, class level.Class) []*level.Group {
	res := groups[:0]
	for _, g := range groups {
		if g.Class != class {
			res = append(res, g)
		}
	}
	return res
}

func texturesInBounds(m level.Model, count int) bool {
	for _, ref := range m.Base().Textures {
		if ref.Id < 0 || int(ref.Id) >= count {
			return false
		}
	}
	return true
}

func importInstances(class level.Class, instances []*level.Instance, dst *level.Container,
	opts Options, res *Result, log *zap.Logger) {

	dstData := dst.Class(class)
	models := make(map[level.ModelId]level.Model, len(dstData.Models))
	for _, m := range dstData.Models {
		if _, dup := models[m.Base().Id]; !dup {
			models[m.Base().Id] = m
		}
	}

	used := dst.InstanceIds(class)
	names := make(map[string]struct{}, len(dstData.Instances))
	for _, inst := range dstData.Instances {
		names[inst.Name] = struct{}{}
	}
	rng := utils.NewRandomNameGenerator(names)

	for _, inst := range instances {
		fields := []zap.Field{zap.Uint16("instance", uint16(inst.Id)), zap.String("name", inst.Name)}

		if reason := instfilter.Reason(inst); reason != instfilter.REASON_NONE {
			reject(res.Rejections, log, RejectInvalidTransform, append(fields, zap.String("detail", reason))...)
			continue
		}
		to, ok := res.Mapping[inst.ModelId]
		if !ok {
			reject(res.Rejections, log, RejectMissingModel, append(fields, zap.Int16("model", int16(inst.ModelId)))...)
			continue
		}
		model, ok := models[to]
		if !ok {
			reject(res.Rejections, log, RejectMissingModel, append(fields, zap.Int16("model", int16(to)))...)
			continue
		}
		if !texturesInBounds(model, len(dst.Textures)) {
			reject(res.Rejections, log, RejectInvalidTexture, append(fields, zap.Int16("model", int16(to)))...)
			continue
		}
		id, err := dst.Alloc.NextInstance(class, opts.InstanceFloor, used)
		if err != nil {
			reject(res.Rejections, log, RejectIdExhausted, append(fields, zap.Error(err))...)
			continue
		}

		imported := &level.Instance{
			Id:         id,
			Name:       inst.Name,
			ModelId:    to,
			LightGroup: inst.LightGroup + opts.LightGroupOffset,
			Flags:      inst.Flags,
		}
		imported.CopyTransform(inst)
		imported.RebuildColors(inst.Colors, level.VertexCount(model))

		if imported.Name == "" || len(imported.Name) >= layout.NAME_SIZE || rng.Taken(imported.Name) {
			imported.Name = rng.RandomName(layout.NAME_SIZE - 1)
			log.Debug("instance renamed", append(fields, zap.String("to", imported.Name))...)
		} else {
			rng.Reserve(imported.Name)
		}

		dstData.Instances = append(dstData.Instances, imported)
		res.Instances++
	}
}
