package wadio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/levelport/config"
	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/layout"
)

// Save writes c in the current format version. Classes whose derived tables
// are out of date get them regenerated first, which may reorder their
// instance lists.
func Save(w io.Writer, c *level.Container) error {
	tags, err := containerTags(c)
	if err != nil {
		return err
	}
	return WriteTags(w, tags)
}

func SaveFile(path string, c *level.Container) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Can't create %q", path)
	}
	if err := Save(f, c); err != nil {
		f.Close()
		return errors.Wrapf(err, "Can't save %q", path)
	}
	return f.Close()
}

func containerTags(c *level.Container) ([]Tag, error) {
	if err := c.Layout.Validate(); err != nil {
		return nil, errors.Wrapf(err, "container layout")
	}

	tags := []Tag{{
		Tag:  TAG_HEADER,
		Name: c.Name,
		Data: encodeHeader(uint16(config.FormatCurrent), c.Layout),
	}}

	for _, t := range c.Textures {
		tags = append(tags, Tag{Tag: TAG_TEXTURE, Name: t.Name, Data: encodeTexture(t)})
	}
	for _, l := range c.Lights {
		tags = append(tags, Tag{Tag: TAG_LIGHT, Data: encodeLight(l)})
	}
	for _, g := range c.Groups {
		tags = append(tags, Tag{Tag: TAG_GROUP, Name: g.Name, Data: encodeGroup(g)})
	}

	for _, cl := range level.Classes {
		cd := c.Class(cl)
		if len(cd.Models) == 0 && len(cd.Instances) == 0 {
			continue
		}
		if !layout.Consistent(cd) {
			if _, err := layout.Apply(cd); err != nil {
				return nil, errors.Wrapf(err, "%v layout", cl)
			}
		}

		flags := uint16(cl)
		counts := make([]byte, 8)
		binary.LittleEndian.PutUint32(counts[0:], uint32(len(cd.Models)))
		binary.LittleEndian.PutUint32(counts[4:], uint32(len(cd.Instances)))
		tags = append(tags, Tag{Tag: TAG_CLASS_START, Flags: flags, Name: cl.String(), Data: counts})

		for _, m := range cd.Models {
			if m.Class() != cl {
				return nil, errors.Errorf("%v model %d is a %v model", cl, m.Base().Id, m.Class())
			}
			data, err := encodeModel(m)
			if err != nil {
				return nil, errors.Wrapf(err, "%v", cl)
			}
			tags = append(tags, Tag{Tag: TAG_MODEL, Flags: flags, Name: m.Base().Name, Data: data})
		}

		tags = append(tags,
			Tag{Tag: TAG_INSTANCES, Flags: flags, Data: cd.InstanceRaw},
			Tag{Tag: TAG_COLORS, Flags: flags, Data: cd.ColorRaw},
			Tag{Tag: TAG_INDEX, Flags: flags, Data: cd.IndexRaw},
			Tag{Tag: TAG_CLASS_END, Flags: flags, Name: cl.String()})
	}
	return tags, nil
}
