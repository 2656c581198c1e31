package dp

// IntMap is a two-dimensional array of integer indices with the same
// shape conventions as rimg64.Image. It records, per cell, either a
// source coordinate from a distance transform or the winning plane of
// an elementwise reduction.
type IntMap struct {
	// Elems[x*Height+y] is the element at (x, y).
	Elems  []int
	Width  int
	Height int
}

// NewIntMap allocates a zeroed width-by-height map.
func NewIntMap(width, height int) *IntMap {
	return &IntMap{make([]int, width*height), width, height}
}

// At returns the element at (x, y).
func (f *IntMap) At(x, y int) int { return f.Elems[x*f.Height+y] }

// Set modifies the element at (x, y).
func (f *IntMap) Set(x, y, v int) { f.Elems[x*f.Height+y] = v }

// Clone creates a copy.
func (f *IntMap) Clone() *IntMap {
	g := NewIntMap(f.Width, f.Height)
	copy(g.Elems, f.Elems)
	return g
}
