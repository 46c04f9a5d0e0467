package merge

import (
	"sort"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/idspace"
)

type Reason string

// Item level rejections. A rejected item is skipped and counted, never
// retried.
const (
	RejectInvalidTransform Reason = "invalid transform"
	RejectMissingModel     Reason = "missing model mapping"
	RejectInvalidTexture   Reason = "invalid texture"
	RejectSubtypeMismatch  Reason = "model subtype mismatch"
	RejectDuplicateModel   Reason = "duplicate source model"
	RejectInvalidMesh      Reason = "invalid mesh"
	RejectIdExhausted      Reason = "id space exhausted"
)

type Rejections map[Reason]int

func (r Rejections) Add(o Rejections) {
	for reason, n := range o {
		r[reason] += n
	}
}

func (r Rejections) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// Reasons returns reasons with a non zero count, sorted.
func (r Rejections) Reasons() []Reason {
	res := make([]Reason, 0, len(r))
	for reason, n := range r {
		if n != 0 {
			res = append(res, reason)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

type Result struct {
	Class      level.Class
	Mapping    idspace.Mapping
	Rejections Rejections

	Models    int
	Instances int
	Groups    int

	TexturesImported int
	TexturesReused   int
}

func newResult(c level.Class) *Result {
	return &Result{
		Class:      c,
		Mapping:    make(idspace.Mapping),
		Rejections: make(Rejections),
	}
}
