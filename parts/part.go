package parts

import (
	"fmt"
	"image"
)

// Quad holds the quadratic deformation coefficients of a part relative
// to its parent. Displacing the part by (dx, dy) from its anchor costs
//	Ax*dx*dx + Bx*dx + Ay*dy*dy + By*dy
// subtracted from the appearance score. Ax and Ay must not be negative.
type Quad struct {
	Ax, Bx float64
	Ay, By float64
}

// Part is one node of the model tree.
// Its position index is its index in the tree's arena.
type Part struct {
	// Children holds arena indices. Empty means leaf.
	Children []int
	// W holds the deformation coefficients, one per mixture.
	W []Quad
	// Bias[p][m] is the score of pairing mixture m of this part with
	// mixture p of the parent.
	Bias [][]float64
	// Anchor is the expected offset of this part from its parent.
	Anchor image.Point
}

// NumMixtures returns the number of appearance mixtures of the part.
func (p *Part) NumMixtures() int { return len(p.W) }

// IsLeaf reports whether the part has no children.
func (p *Part) IsLeaf() bool { return len(p.Children) == 0 }

// Tree is a rooted tree of parts.
// It is immutable after construction and safe to share across
// concurrent detections.
type Tree struct {
	parts []Part
	root  int
	ndesc []int
}

// NewTree validates the arena and returns it as a tree.
// Every node must be reachable from the root exactly once, all parts
// must declare the same number of mixtures, every bias matrix must be
// square in that number, and quadratic coefficients must not be
// negative.
func NewTree(ps []Part, root int) (*Tree, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("empty part list")
	}
	if root < 0 || root >= len(ps) {
		return nil, fmt.Errorf("root out of range: %d not in [0, %d)", root, len(ps))
	}
	nm := ps[root].NumMixtures()
	if nm < 1 {
		return nil, fmt.Errorf("part %d: no mixtures", root)
	}
	for i := range ps {
		p := &ps[i]
		if p.NumMixtures() != nm {
			return nil, fmt.Errorf("part %d: %d mixtures, root has %d", i, p.NumMixtures(), nm)
		}
		if len(p.Bias) != nm {
			return nil, fmt.Errorf("part %d: bias has %d rows, want %d", i, len(p.Bias), nm)
		}
		for m := range p.Bias {
			if len(p.Bias[m]) != nm {
				return nil, fmt.Errorf("part %d: bias row %d has %d entries, want %d", i, m, len(p.Bias[m]), nm)
			}
		}
		for m, w := range p.W {
			if w.Ax < 0 || w.Ay < 0 {
				return nil, fmt.Errorf("part %d mixture %d: negative quadratic coefficient", i, m)
			}
		}
	}
	// Check that the root spans the arena without revisiting a node.
	seen := make([]bool, len(ps))
	ndesc := make([]int, len(ps))
	if err := visit(ps, root, seen, ndesc); err != nil {
		return nil, err
	}
	for i := range seen {
		if !seen[i] {
			return nil, fmt.Errorf("part %d not reachable from root", i)
		}
	}
	return &Tree{parts: ps, root: root, ndesc: ndesc}, nil
}

func visit(ps []Part, i int, seen []bool, ndesc []int) error {
	if i < 0 || i >= len(ps) {
		return fmt.Errorf("child out of range: %d not in [0, %d)", i, len(ps))
	}
	if seen[i] {
		return fmt.Errorf("part %d visited twice: not a tree", i)
	}
	seen[i] = true
	for _, c := range ps[i].Children {
		if err := visit(ps, c, seen, ndesc); err != nil {
			return err
		}
		ndesc[i] += ndesc[c] + 1
	}
	return nil
}

// Root returns the arena index of the root part.
func (t *Tree) Root() int { return t.root }

// Part returns the part at arena index i.
func (t *Tree) Part(i int) *Part { return &t.parts[i] }

// NumParts returns the number of parts in the tree.
func (t *Tree) NumParts() int { return len(t.parts) }

// NumMixtures returns the number of mixtures, common to all parts.
func (t *Tree) NumMixtures() int { return t.parts[t.root].NumMixtures() }

// NumDescendants returns the number of parts strictly below part i.
func (t *Tree) NumDescendants(i int) int { return t.ndesc[i] }
