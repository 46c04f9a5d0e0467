package idspace

import (
	"sort"

	"github.com/mogaika/levelport/level"
)

// Remap records one applied model id change.
type Remap struct {
	Class level.Class   `yaml:"class"`
	From  level.ModelId `yaml:"from"`
	To    level.ModelId `yaml:"to"`
}

// Collisions returns, per losing class, the ids it shares with a class
// listed earlier in the namespace.
func Collisions(c *level.Container, classes []level.Class) map[level.Class][]level.ModelId {
	res := make(map[level.Class][]level.ModelId)
	owned := make(idSet)
	for _, cl := range classes {
		ids := c.ModelIds(cl)
		for _, id := range ids {
			if owned.has(id) {
				res[cl] = append(res[cl], id)
			}
		}
		for _, id := range ids {
			owned[id] = struct{}{}
		}
	}
	for cl := range res {
		sortIds(res[cl])
	}
	return res
}

// ReconcileShared moves every colliding id of the losing classes of
// namespace n above the highest id in use (or floor, when higher) and
// updates instances and groups that referenced the old ids. Derived index
// tables of touched classes are dropped for regeneration.
func ReconcileShared(c *level.Container, ns level.Namespaces, n level.Namespace, floor level.ModelId) ([]Remap, error) {
	classes := ns[n]
	if len(classes) < 2 {
		return nil, nil
	}
	if len(Collisions(c, classes)) == 0 {
		return nil, nil
	}

	all := c.NamespaceIds(ns, n)
	used := newIdSet(all)
	start := c.Alloc.ModelFloor(n, floor)
	if top := all[len(all)-1]; top != level.MODEL_ID_MAX && top+1 > start {
		start = top + 1
	}

	owned := newIdSet(c.ModelIds(classes[0]))
	remaps := make([]Remap, 0)
	for _, cl := range classes[1:] {
		colliding := make([]level.ModelId, 0)
		for _, id := range c.ModelIds(cl) {
			if owned.has(id) {
				colliding = append(colliding, id)
			}
		}
		sortIds(colliding)
		for _, from := range colliding {
			to, err := used.next(start)
			if err != nil {
				return remaps, err
			}
			if err := c.RemapModelId(cl, from, to); err != nil {
				return remaps, err
			}
			used[to] = struct{}{}
			c.Alloc.CommitModel(n, to)
			remaps = append(remaps, Remap{Class: cl, From: from, To: to})
		}
		for _, id := range c.ModelIds(cl) {
			owned[id] = struct{}{}
		}
	}
	return remaps, nil
}

// ReconcileDuplicates gives every repeated model id inside one class a fresh
// id. The first model keeps the id and with it every instance reference.
func ReconcileDuplicates(c *level.Container, ns level.Namespaces, cl level.Class, floor level.ModelId) ([]Remap, error) {
	n := ns.Of(cl)
	used := newIdSet(c.NamespaceIds(ns, n))
	seen := make(idSet)
	start := c.Alloc.ModelFloor(n, floor)

	remaps := make([]Remap, 0)
	for _, m := range c.Class(cl).Models {
		b := m.Base()
		if !seen.has(b.Id) {
			seen[b.Id] = struct{}{}
			continue
		}
		to, err := used.next(start)
		if err != nil {
			return remaps, err
		}
		remaps = append(remaps, Remap{Class: cl, From: b.Id, To: to})
		b.Id = to
		used[to] = struct{}{}
		seen[to] = struct{}{}
		c.Alloc.CommitModel(n, to)
	}
	if len(remaps) != 0 {
		c.Class(cl).Stale()
	}
	return remaps, nil
}

func sortIds(ids []level.ModelId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
