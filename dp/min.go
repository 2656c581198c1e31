package dp

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/jvlmdr/go-cv/detect"
	"github.com/jvlmdr/go-cv/rimg64"
)

// Min runs the leaf-to-root sweep of the dynamic program at every
// scale and returns the tables needed to extract candidates.
//
// responses must hold one plane per (scale, part, mixture) in layout
// order; its length is validated against the tree before any work
// starts. Within one scale all planes must share a shape, though the
// shape may differ between scales. A zero-size scale is degenerate and
// yields no candidates rather than an error.
//
// Scales are independent and are swept concurrently. The tree and the
// response planes are only read.
func Min(tree *parts.Tree, responses []*rimg64.Image, nscales int) (*Tables, error) {
	layout := parts.Layout{
		NumParts:    tree.NumParts(),
		NumMixtures: tree.NumMixtures(),
		NumScales:   nscales,
	}
	if len(responses) != layout.Len() {
		return nil, fmt.Errorf(
			"response count: got %d, want %d (%d parts, %d mixtures, %d scales)",
			len(responses), layout.Len(), layout.NumParts, layout.NumMixtures, nscales,
		)
	}
	t := &Tables{
		tree:   tree,
		layout: layout,
		scores: make([]*rimg64.Image, len(responses)),
		ix:     make([]*IntMap, len(responses)),
		iy:     make([]*IntMap, len(responses)),
		ik:     make([]*IntMap, len(responses)),
	}
	for i, f := range responses {
		t.scores[i] = f.Clone()
	}

	errs := make([]error, nscales)
	var wg sync.WaitGroup
	for s := 0; s < nscales; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			errs[s] = t.sweep(s)
		}(s)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// sweep validates the plane shapes of one scale and passes messages up
// the tree.
func (t *Tables) sweep(scale int) error {
	first := t.scores[t.layout.At(scale, 0, 0)]
	width, height := first.Width, first.Height
	for part := 0; part < t.layout.NumParts; part++ {
		for m := 0; m < t.layout.NumMixtures; m++ {
			f := t.scores[t.layout.At(scale, part, m)]
			if f.Width != width || f.Height != height {
				return fmt.Errorf(
					"scale %d part %d mixture %d: plane is %dx%d, want %dx%d",
					scale, part, m, f.Width, f.Height, width, height,
				)
			}
		}
	}
	if width == 0 || height == 0 {
		// No feasible placement at this scale.
		return nil
	}
	return t.passMessages(t.tree.Root(), scale)
}

// rootMax is one local optimum of the root score.
type rootMax struct {
	Scale   int
	Mixture int
	X, Y    int
	Score   float64
}

type byScore []rootMax

func (xs byScore) Len() int           { return len(xs) }
func (xs byScore) Less(i, j int) bool { return xs[i].Score < xs[j].Score }
func (xs byScore) Swap(i, j int)      { xs[i], xs[j] = xs[j], xs[i] }

// ArgMin backtracks every root-level local optimum into a candidate,
// best first. Thresholding and suppression of the resulting list are
// left to the caller.
func (t *Tables) ArgMin() ([]parts.Candidate, error) {
	return t.Candidates(0)
}

// Candidates backtracks the best root-level local optima into
// candidates, best first. A positive limit caps the number returned;
// limit <= 0 returns all of them.
//
// A local optimum is a cell of a root score plane with finite score no
// smaller than any of its eight neighbours. Each is walked down the
// tree: at every node, the retained planes of the edge to each child,
// read at the node's chosen cell under its chosen mixture, give the
// child's cell and mixture.
func (t *Tables) Candidates(limit int) ([]parts.Candidate, error) {
	return t.CandidatesFilter(limit, detect.DetFilter{LocalMax: true, MinScore: math.Inf(-1)})
}

// CandidatesFilter is Candidates with the filter applied while
// scanning the root planes: cells below f.MinScore are skipped, and
// with f.LocalMax unset every feasible cell is a candidate, not only
// the local optima.
func (t *Tables) CandidatesFilter(limit int, f detect.DetFilter) ([]parts.Candidate, error) {
	maxima := t.rootMaxima(f)
	sort.Sort(sort.Reverse(byScore(maxima)))
	if limit > 0 && len(maxima) > limit {
		maxima = maxima[:limit]
	}
	cands := make([]parts.Candidate, len(maxima))
	for i, m := range maxima {
		cand := parts.Candidate{
			Scale: m.Scale,
			Score: m.Score,
			Parts: make([]parts.PartLoc, t.tree.NumParts()),
		}
		t.place(t.tree.Root(), m.Scale, m.Mixture, m.X, m.Y, &cand)
		cands[i] = cand
	}
	return cands, nil
}

// rootMaxima scans the root's score planes across all scales and
// mixtures for cells passing the filter. Infeasible cells never pass.
func (t *Tables) rootMaxima(filter detect.DetFilter) []rootMax {
	var maxima []rootMax
	root := t.tree.Root()
	for s := 0; s < t.layout.NumScales; s++ {
		for m := 0; m < t.layout.NumMixtures; m++ {
			f := t.scores[t.layout.At(s, root, m)]
			for x := 0; x < f.Width; x++ {
				for y := 0; y < f.Height; y++ {
					v := f.At(x, y)
					if math.IsInf(v, -1) || v < filter.MinScore {
						continue
					}
					if filter.LocalMax && !localMax(f, x, y) {
						continue
					}
					maxima = append(maxima, rootMax{s, m, x, y, v})
				}
			}
		}
	}
	return maxima
}

// localMax reports whether cell (x, y) is no smaller than its eight
// neighbours.
func localMax(f *rimg64.Image, x, y int) bool {
	v := f.At(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			u, w := x+dx, y+dy
			if u < 0 || u >= f.Width || w < 0 || w >= f.Height {
				continue
			}
			if f.At(u, w) > v {
				return false
			}
		}
	}
	return true
}

// place records the placement of node and resolves its children from
// the retained argmin planes of each edge.
func (t *Tables) place(node, scale, mixture, x, y int, cand *parts.Candidate) {
	cand.Parts[node] = parts.PartLoc{X: x, Y: y, Mixture: mixture}
	for _, c := range t.tree.Part(node).Children {
		key := t.layout.At(scale, c, mixture)
		cx := t.ix[key].At(x, y)
		cy := t.iy[key].At(x, y)
		cm := t.ik[key].At(x, y)
		t.place(c, scale, cm, cx, cy, cand)
	}
}

// Score returns the accumulated root score plane for one scale and
// root mixture.
func (t *Tables) Score(scale, mixture int) *rimg64.Image {
	return t.scores[t.layout.At(scale, t.tree.Root(), mixture)]
}
