package merge

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/levelport/level"
)

// Flags select what MergeClass takes from the source container.
type Flags uint8

const (
	UseSourcePlacements Flags = 1 << iota
	UseSourceModels
	UseSourceTextures
	ReplaceExisting
	PreserveOriginalIds
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{UseSourcePlacements, "placements"},
	{UseSourceModels, "models"},
	{UseSourceTextures, "textures"},
	{ReplaceExisting, "replace"},
	{PreserveOriginalIds, "preserve_ids"},
}

func (f Flags) Has(o Flags) bool {
	return f&o == o
}

func (f Flags) String() string {
	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Errorf("unknown import flag %q", name)
		}
	}
	return f, nil
}

type Options struct {
	Flags Flags

	// First id handed out when a source model id collides.
	ModelFloor level.ModelId
	// First id of imported instances.
	InstanceFloor level.InstanceId

	// Added to the light group of every imported instance, see ImportLights.
	LightGroupOffset uint16

	// nil means level.DefaultNamespaces().
	Namespaces level.Namespaces
}

func (o *Options) namespaces() level.Namespaces {
	if o.Namespaces == nil {
		return level.DefaultNamespaces()
	}
	return o.Namespaces
}
