package dp

import (
	"math"
	"math/rand"

	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/jvlmdr/go-cv/rimg64"
)

const eps = 1e-9

func epsEq(want, got, eps float64) bool {
	return math.Abs(want-got) <= eps
}

func randPlane(rnd *rand.Rand, width, height int) *rimg64.Image {
	f := rimg64.New(width, height)
	for i := 0; i < width; i++ {
		for j := 0; j < height; j++ {
			f.Set(i, j, rnd.NormFloat64())
		}
	}
	return f
}

func constPlane(width, height int, v float64) *rimg64.Image {
	f := rimg64.New(width, height)
	for i := range f.Elems {
		f.Elems[i] = v
	}
	return f
}

// quadCost is the deformation cost of displacing a part by (dx, dy).
func quadCost(w parts.Quad, dx, dy int) float64 {
	fx, fy := float64(dx), float64(dy)
	return w.Ax*fx*fx + w.Bx*fx + w.Ay*fy*fy + w.By*fy
}
