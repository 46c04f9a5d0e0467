package wadio

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/levelport/config"
	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/utils"
)

type classBlobs struct {
	models    int
	instances int
	started   bool

	instanceRaw []byte
	colorRaw    []byte
	indexRaw    []byte
}

type loader struct {
	c       *level.Container
	version config.FormatVersion
	classes [level.CLASS_COUNT]classBlobs
	current int
}

// Load parses a container of any supported format version. v1 containers
// come back with their derived tables dropped, since they are only valid
// for the v1 record layout.
func Load(r io.Reader) (*level.Container, error) {
	tags, err := ReadTags(r)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 || tags[0].Tag != TAG_HEADER {
		return nil, errors.New("stream does not start with a header tag")
	}

	l := &loader{current: -1}
	if err := l.parse(tags); err != nil {
		return nil, err
	}
	if err := l.finish(); err != nil {
		return nil, err
	}
	return l.c, nil
}

func LoadFile(path string) (*level.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open %q", path)
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load %q", path)
	}
	return c, nil
}

func (l *loader) parse(tags []Tag) (err error) {
	i := 0
	defer func() {
		if rec := recover(); rec != nil {
			overrun, ok := rec.(*utils.BufOverrun)
			if !ok {
				panic(rec)
			}
			err = errors.Wrapf(overrun, "tag %d (%.4x %q)", i, tags[i].Tag, tags[i].Name)
		}
	}()

	for i = range tags {
		if err := l.tag(&tags[i]); err != nil {
			return errors.Wrapf(err, "tag %d (%.4x %q)", i, tags[i].Tag, tags[i].Name)
		}
	}
	return nil
}

func (l *loader) section(t *Tag) (*classBlobs, error) {
	if int(t.Flags) >= level.CLASS_COUNT {
		return nil, errors.Errorf("unknown class %d", t.Flags)
	}
	if l.current != int(t.Flags) {
		return nil, errors.Errorf("%v data outside of its class section", level.Class(t.Flags))
	}
	return &l.classes[t.Flags], nil
}

func (l *loader) tag(t *Tag) error {
	bs := utils.NewBufStack("tag", t.Data).SetName(t.Name)

	if t.Tag == TAG_HEADER {
		if l.c != nil {
			return errors.New("second header")
		}
		version, vl, err := decodeHeader(bs)
		if err != nil {
			return err
		}
		l.version = config.FormatVersion(version)
		if !l.version.Supported() {
			return errors.Errorf("unsupported format version %v", l.version)
		}
		if err := vl.Validate(); err != nil {
			return err
		}
		if l.version == config.FormatV1 && vl != V1_LAYOUT {
			return errors.Errorf("v1 container with vertex layout %v", vl)
		}
		l.c = level.NewContainer(t.Name)
		l.c.Version = version
		l.c.Layout = vl
		return nil
	}

	switch t.Tag {
	case TAG_TEXTURE:
		l.c.Textures = append(l.c.Textures, decodeTexture(t.Name, bs))
	case TAG_LIGHT:
		l.c.Lights = append(l.c.Lights, decodeLight(bs))
	case TAG_GROUP:
		g, err := decodeGroup(t.Name, bs)
		if err != nil {
			return err
		}
		l.c.Groups = append(l.c.Groups, g)
	case TAG_CLASS_START:
		if l.current >= 0 {
			return errors.Errorf("class section %v is not closed", level.Class(l.current))
		}
		if int(t.Flags) >= level.CLASS_COUNT {
			return errors.Errorf("unknown class %d", t.Flags)
		}
		cb := &l.classes[t.Flags]
		if cb.started {
			return errors.Errorf("second %v section", level.Class(t.Flags))
		}
		cb.started = true
		cb.models = int(bs.ReadLU32())
		cb.instances = int(bs.ReadLU32())
		l.current = int(t.Flags)
	case TAG_MODEL:
		if _, err := l.section(t); err != nil {
			return err
		}
		m, err := decodeModel(level.Class(t.Flags), t.Name, bs)
		if err != nil {
			return err
		}
		if l.version == config.FormatV1 && m.Base().Layout != V1_LAYOUT {
			return errors.Errorf("v1 model %d with vertex layout %v", m.Base().Id, m.Base().Layout)
		}
		cd := l.c.Class(level.Class(t.Flags))
		cd.Models = append(cd.Models, m)
	case TAG_INSTANCES, TAG_COLORS, TAG_INDEX:
		cb, err := l.section(t)
		if err != nil {
			return err
		}
		raw := append([]byte(nil), t.Data...)
		switch t.Tag {
		case TAG_INSTANCES:
			cb.instanceRaw = raw
		case TAG_COLORS:
			cb.colorRaw = raw
		case TAG_INDEX:
			cb.indexRaw = raw
		}
	case TAG_CLASS_END:
		if _, err := l.section(t); err != nil {
			return err
		}
		l.current = -1
	default:
		return errors.Errorf("unknown tag %.4x", t.Tag)
	}
	return nil
}

func (l *loader) finish() error {
	if l.current >= 0 {
		return errors.Errorf("class section %v is not closed", level.Class(l.current))
	}

	for _, cl := range level.Classes {
		cb := &l.classes[cl]
		cd := l.c.Class(cl)
		if !cb.started {
			continue
		}
		if len(cd.Models) != cb.models {
			return errors.Errorf("%v: section declares %d models, found %d", cl, cb.models, len(cd.Models))
		}

		instances, err := decodeInstances(l.version, cb.instanceRaw, cb.colorRaw)
		if err != nil {
			return errors.Wrapf(err, "%v instances", cl)
		}
		if len(instances) != cb.instances {
			return errors.Errorf("%v: section declares %d instances, found %d", cl, cb.instances, len(instances))
		}
		cd.Instances = instances

		if l.version == config.FormatV1 {
			cd.Stale()
			continue
		}
		index, err := layout.DecodeIndex(cb.indexRaw, len(cd.Models))
		if err != nil {
			return errors.Wrapf(err, "%v index", cl)
		}
		cd.Index = index
		cd.IndexRaw = cb.indexRaw
		cd.InstanceRaw = cb.instanceRaw
		cd.ColorRaw = cb.colorRaw
	}
	return nil
}
