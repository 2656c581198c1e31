package parts

import (
	"image"
	"testing"
)

func unitPart(children ...int) Part {
	return Part{
		Children: children,
		W:        []Quad{{Ax: 1, Ay: 1}},
		Bias:     [][]float64{{0}},
		Anchor:   image.Pt(0, 0),
	}
}

func TestNewTree_chain(t *testing.T) {
	ps := []Part{unitPart(1), unitPart(2), unitPart()}
	tree, err := NewTree(ps, 0)
	if err != nil {
		t.Fatal(err)
	}
	if tree.NumParts() != 3 {
		t.Errorf("parts: want 3, got %d", tree.NumParts())
	}
	if tree.NumMixtures() != 1 {
		t.Errorf("mixtures: want 1, got %d", tree.NumMixtures())
	}
	for i, want := range []int{2, 1, 0} {
		if got := tree.NumDescendants(i); got != want {
			t.Errorf("descendants of %d: want %d, got %d", i, want, got)
		}
	}
	if !tree.Part(2).IsLeaf() || tree.Part(0).IsLeaf() {
		t.Error("leaf detection")
	}
}

func TestNewTree_cycle(t *testing.T) {
	ps := []Part{unitPart(1), unitPart(0)}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for cycle")
	}
}

func TestNewTree_unreachable(t *testing.T) {
	ps := []Part{unitPart(), unitPart()}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for unreachable part")
	}
}

func TestNewTree_childOutOfRange(t *testing.T) {
	ps := []Part{unitPart(3)}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for child index out of range")
	}
}

func TestNewTree_raggedMixtures(t *testing.T) {
	leaf := Part{
		W:    []Quad{{Ax: 1, Ay: 1}, {Ax: 1, Ay: 1}},
		Bias: [][]float64{{0, 0}, {0, 0}},
	}
	ps := []Part{unitPart(1), leaf}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for differing mixture counts")
	}
}

func TestNewTree_biasShape(t *testing.T) {
	bad := unitPart()
	bad.Bias = [][]float64{{0, 0}}
	ps := []Part{unitPart(1), bad}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for mis-shaped bias")
	}
}

func TestNewTree_negativeCoefficient(t *testing.T) {
	bad := unitPart()
	bad.W = []Quad{{Ax: -1, Ay: 1}}
	ps := []Part{unitPart(1), bad}
	if _, err := NewTree(ps, 0); err == nil {
		t.Error("expect error for negative quadratic coefficient")
	}
}

func TestLayout(t *testing.T) {
	l := Layout{NumParts: 4, NumMixtures: 3, NumScales: 2}
	if got := l.Len(); got != 24 {
		t.Errorf("len: want 24, got %d", got)
	}
	// index = nparts*nmixtures*scale + nmixtures*part + mixture
	if got := l.At(0, 0, 0); got != 0 {
		t.Errorf("at(0,0,0): want 0, got %d", got)
	}
	if got := l.At(1, 2, 1); got != 4*3*1+3*2+1 {
		t.Errorf("at(1,2,1): want %d, got %d", 4*3*1+3*2+1, got)
	}
	// Mixtures of one part are contiguous.
	if l.At(0, 1, 2)+1 != l.At(0, 2, 0) {
		t.Error("parts not contiguous in layout")
	}
}
