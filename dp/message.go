package dp

import (
	"fmt"
	"image"
	"math"

	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/gonum/floats"
	"github.com/jvlmdr/go-cv/rimg64"
)

// Tables holds the state of one leaf-to-root sweep: the accumulated
// score planes and, per (child part, parent mixture, scale), the
// argmin planes required to walk back down the tree.
type Tables struct {
	tree   *parts.Tree
	layout parts.Layout
	// scores is a private copy of the response planes into which
	// messages accumulate. The root's planes end up holding the score
	// of the best configuration rooted at every cell.
	scores []*rimg64.Image
	// ix, iy and ik are keyed by layout index of the child part under
	// the parent's mixture. Entries for the root remain nil.
	ix []*IntMap
	iy []*IntMap
	ik []*IntMap
}

// passMessages walks the subtree rooted at node in post-order, sending
// each child's message to its parent once the child's own subtree has
// been absorbed.
func (t *Tables) passMessages(node, scale int) error {
	for _, c := range t.tree.Part(node).Children {
		if err := t.passMessages(c, scale); err != nil {
			return err
		}
		if err := t.sendMessage(c, node, scale); err != nil {
			return err
		}
	}
	return nil
}

// sendMessage adds the message from child to parent into the parent's
// score planes and retains the backtracking planes of the edge.
//
// Per child mixture, the child's accumulated plane is distance
// transformed with that mixture's deformation coefficients and shifted
// by the child's anchor into the parent frame. Per parent mixture, the
// shifted planes are biased by the learned mixture pairing scores and
// reduced by elementwise max over child mixtures.
func (t *Tables) sendMessage(child, parent, scale int) error {
	p := t.tree.Part(child)
	nm := p.NumMixtures()
	shifted := make([]*rimg64.Image, nm)
	shiftedIx := make([]*IntMap, nm)
	shiftedIy := make([]*IntMap, nm)
	for m := 0; m < nm; m++ {
		in := t.scores[t.layout.At(scale, child, m)]
		dt, ix, iy, err := DistanceTransform(in, p.W[m])
		if err != nil {
			return fmt.Errorf("part %d mixture %d: %v", child, m, err)
		}
		shifted[m], shiftedIx[m], shiftedIy[m] = shiftByAnchor(dt, ix, iy, p.Anchor)
	}
	for pm := 0; pm < nm; pm++ {
		weighted := make([]*rimg64.Image, nm)
		for m := 0; m < nm; m++ {
			f := shifted[m].Clone()
			floats.AddConst(p.Bias[pm][m], f.Elems)
			weighted[m] = f
		}
		maxv, maxi, err := ReduceMax(weighted)
		if err != nil {
			return err
		}
		ixSel, err := pickIndexMaps(shiftedIx, maxi)
		if err != nil {
			return err
		}
		iySel, err := pickIndexMaps(shiftedIy, maxi)
		if err != nil {
			return err
		}
		dst := t.scores[t.layout.At(scale, parent, pm)]
		if err := addTo(dst, maxv); err != nil {
			return fmt.Errorf("part %d to %d: %v", child, parent, err)
		}
		key := t.layout.At(scale, child, pm)
		t.ix[key], t.iy[key], t.ik[key] = ixSel, iySel, maxi
	}
	return nil
}

// shiftByAnchor translates a transformed child plane into the parent
// frame. Parent cell (x, y) reads child cell (x+anchor.X, y+anchor.Y);
// cells outside the valid overlap are infeasible and score -Inf. An
// anchor with no overlap at all leaves the whole plane at -Inf.
func shiftByAnchor(score *rimg64.Image, ix, iy *IntMap, anchor image.Point) (*rimg64.Image, *IntMap, *IntMap) {
	width, height := score.Width, score.Height
	out := rimg64.New(width, height)
	for i := range out.Elems {
		out.Elems[i] = math.Inf(-1)
	}
	outIx := NewIntMap(width, height)
	outIy := NewIntMap(width, height)
	for x := 0; x < width; x++ {
		u := x + anchor.X
		if u < 0 || u >= width {
			continue
		}
		for y := 0; y < height; y++ {
			v := y + anchor.Y
			if v < 0 || v >= height {
				continue
			}
			out.Set(x, y, score.At(u, v))
			outIx.Set(x, y, ix.At(u, v))
			outIy.Set(x, y, iy.At(u, v))
		}
	}
	return out, outIx, outIy
}

// addTo accumulates src into dst elementwise.
func addTo(dst, src *rimg64.Image) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("plane sizes differ: %dx%d, %dx%d", dst.Width, dst.Height, src.Width, src.Height)
	}
	floats.Add(dst.Elems, src.Elems)
	return nil
}
