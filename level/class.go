package level

import (
	"fmt"
	"sort"
	"strings"
)

type Class uint8

const (
	Static Class = iota
	Placeable
	Terrain
	Volume

	CLASS_COUNT = 4
)

var classNames = [CLASS_COUNT]string{"static", "placeable", "terrain", "volume"}

// Order in which classes are merged and serialized.
var Classes = []Class{Static, Placeable, Terrain, Volume}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range classNames {
		if name == s {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object class %q", s)
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Namespace string

// Namespaces declares which classes share one numeric model id space.
// Classes are listed in priority order: on a cross-class collision the
// class listed first keeps its ids.
type Namespaces map[Namespace][]Class

func DefaultNamespaces() Namespaces {
	return Namespaces{
		"mesh":    {Static, Placeable},
		"terrain": {Terrain},
		"volume":  {Volume},
	}
}

func (ns Namespaces) Of(c Class) Namespace {
	for name, classes := range ns {
		for _, cl := range classes {
			if cl == c {
				return name
			}
		}
	}
	return Namespace(c.String())
}

// Shared returns namespaces that hold more than one class.
func (ns Namespaces) Shared() []Namespace {
	res := make([]Namespace, 0)
	for name, classes := range ns {
		if len(classes) > 1 {
			res = append(res, name)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (ns Namespaces) Validate() error {
	seen := make(map[Class]Namespace)
	for name, classes := range ns {
		for _, c := range classes {
			if int(c) >= CLASS_COUNT {
				return fmt.Errorf("namespace %q: unknown class %d", name, c)
			}
			if prev, ok := seen[c]; ok {
				return fmt.Errorf("class %v declared in both %q and %q namespaces", c, prev, name)
			}
			seen[c] = name
		}
	}
	return nil
}
