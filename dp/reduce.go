package dp

import (
	"fmt"

	"github.com/jvlmdr/go-cv/rimg64"
)

// PickIndex reduces a stack of equally-shaped planes to a single plane
// by selecting, at every cell, the element of the plane named by idx:
//	out(x, y) = planes[idx(x, y)](x, y)
// Returns an error if the stack is empty, if any plane's shape differs
// from that of idx, or if any index lies outside [0, len(planes)).
func PickIndex(planes []*rimg64.Image, idx *IntMap) (*rimg64.Image, error) {
	if err := checkPick(len(planes), idx); err != nil {
		return nil, err
	}
	for k, f := range planes {
		if f.Width != idx.Width || f.Height != idx.Height {
			return nil, fmt.Errorf("plane %d is %dx%d, index is %dx%d", k, f.Width, f.Height, idx.Width, idx.Height)
		}
	}
	dst := rimg64.New(idx.Width, idx.Height)
	for x := 0; x < idx.Width; x++ {
		for y := 0; y < idx.Height; y++ {
			dst.Set(x, y, planes[idx.At(x, y)].At(x, y))
		}
	}
	return dst, nil
}

// pickIndexMaps is PickIndex over integer planes.
// Used to select argmin planes by winning mixture.
func pickIndexMaps(maps []*IntMap, idx *IntMap) (*IntMap, error) {
	if err := checkPick(len(maps), idx); err != nil {
		return nil, err
	}
	for k, f := range maps {
		if f.Width != idx.Width || f.Height != idx.Height {
			return nil, fmt.Errorf("plane %d is %dx%d, index is %dx%d", k, f.Width, f.Height, idx.Width, idx.Height)
		}
	}
	dst := NewIntMap(idx.Width, idx.Height)
	for x := 0; x < idx.Width; x++ {
		for y := 0; y < idx.Height; y++ {
			dst.Set(x, y, maps[idx.At(x, y)].At(x, y))
		}
	}
	return dst, nil
}

// checkPick validates the index plane against a stack of k planes.
func checkPick(k int, idx *IntMap) error {
	if k == 0 {
		return fmt.Errorf("empty plane stack")
	}
	for _, i := range idx.Elems {
		if i < 0 || i >= k {
			return fmt.Errorf("index out of range: %d not in [0, %d)", i, k)
		}
	}
	return nil
}

// ReduceMax reduces a stack of equally-shaped planes to the
// elementwise maximum and the index of the plane which achieved it.
// Ties keep the earliest plane: a later plane replaces the incumbent
// only on a strict increase. A single-plane stack reduces to a copy of
// that plane with an all-zero index.
func ReduceMax(planes []*rimg64.Image) (*rimg64.Image, *IntMap, error) {
	if len(planes) == 0 {
		return nil, nil, fmt.Errorf("empty plane stack")
	}
	width, height := planes[0].Width, planes[0].Height
	for k, f := range planes {
		if f.Width != width || f.Height != height {
			return nil, nil, fmt.Errorf("plane %d is %dx%d, plane 0 is %dx%d", k, f.Width, f.Height, width, height)
		}
	}
	maxv := planes[0].Clone()
	maxi := NewIntMap(width, height)
	for k := 1; k < len(planes); k++ {
		for x := 0; x < width; x++ {
			for y := 0; y < height; y++ {
				if v := planes[k].At(x, y); v > maxv.At(x, y) {
					maxv.Set(x, y, v)
					maxi.Set(x, y, k)
				}
			}
		}
	}
	return maxv, maxi, nil
}
