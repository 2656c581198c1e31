package dp

import (
	"fmt"
	"math"

	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/jvlmdr/go-cv/rimg64"
)

// distanceTransform1D computes the generalized distance transform
//	dst[q] = min_p a*(q-p)*(q-p) + b*(q-p) + src[p]
// with arg[q] the minimizing p, by the Felzenszwalb-Huttenlocher lower
// envelope of parabolas in O(n).
//
// a must not be negative. a == b == 0 degenerates to the identity with
// arg[q] = q, and a == 0 with b != 0 to a single dominating source.
// Sources at +Inf mark infeasible positions and never attain the
// minimum; if every source is infeasible, dst is +Inf throughout.
// dst and arg must have the same length as src.
func distanceTransform1D(src, dst []float64, arg []int, a, b float64) {
	n := len(src)
	if n == 0 {
		return
	}
	if a == 0 && b == 0 {
		copy(dst, src)
		for q := range arg {
			arg[q] = q
		}
		return
	}
	if a == 0 {
		// Linear cost. The envelope is degenerate: the source
		// minimizing src[p] - b*p dominates every position.
		best := 0
		for p := 1; p < n; p++ {
			if src[p]-b*float64(p) < src[best]-b*float64(best) {
				best = p
			}
		}
		for q := 0; q < n; q++ {
			d := float64(q - best)
			dst[q] = b*d + src[best]
			arg[q] = best
		}
		return
	}
	// Infeasible sources (+Inf) can never attain the minimum and
	// their parabolas have no finite intersections; leave them out of
	// the envelope.
	feasible := make([]int, 0, n)
	for p, s := range src {
		if !math.IsInf(s, 1) {
			feasible = append(feasible, p)
		}
	}
	if len(feasible) == 0 {
		for q := range dst {
			dst[q] = math.Inf(1)
			arg[q] = q
		}
		return
	}
	// v[0..k] are the source positions of the active parabolas and
	// z[i] is the breakpoint at which parabola v[i] becomes dominant.
	v := make([]int, len(feasible))
	z := make([]float64, len(feasible)+1)
	k := 0
	v[0] = feasible[0]
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for _, q := range feasible[1:] {
		s := intersect(src, q, v[k], a, b)
		// A candidate whose intersection falls at or before the
		// previous breakpoint hides the topmost parabola entirely.
		for s <= z[k] {
			k--
			s = intersect(src, q, v[k], a, b)
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		d := float64(q - v[k])
		dst[q] = a*d*d + b*d + src[v[k]]
		arg[q] = v[k]
	}
}

// intersect returns the horizontal position at which the parabolas
// rooted at sources q and p attain equal value.
func intersect(src []float64, q, p int, a, b float64) float64 {
	fq, fp := float64(q), float64(p)
	return ((src[q] - src[p]) - b*(fq-fp) + a*(fq*fq-fp*fp)) / (2 * a * (fq - fp))
}

// DistanceTransform computes, for every cell of a score plane, the
// best achievable score over all source cells under a quadratic
// deformation cost:
//	out(x, y) = max_(u, v) in(u, v) - Ax*(x-u)^2 - Bx*(x-u) - Ay*(y-v)^2 - By*(y-v)
// It returns the transformed plane together with the argmax planes ix
// and iy, so that the source of cell (x, y) is (ix(x,y), iy(x,y)).
//
// Scores are maximized but the one-dimensional transform is a
// minimizer, so the plane is negated on the way in and the result
// negated on the way out; the quadratic coefficients keep their sign.
// (Negating the coefficients instead, as is sometimes done, computes
// the same envelope.)
//
// The transform is separable: columns first with (Ay, By), then rows
// with (Ax, Bx). The row pass sees column-transformed data, so its
// argmin is exact and the column argmin must be read back through it:
//	iy(x, y) = iyRaw(ix(x, y), y)
// Reading the composition in the other order silently breaks the
// backtracked source cells.
func DistanceTransform(score *rimg64.Image, w parts.Quad) (*rimg64.Image, *IntMap, *IntMap, error) {
	width, height := score.Width, score.Height
	if width == 0 || height == 0 {
		return nil, nil, nil, fmt.Errorf("empty plane: %dx%d", width, height)
	}
	if w.Ax < 0 || w.Ay < 0 {
		return nil, nil, nil, fmt.Errorf("negative quadratic coefficient: ax %g, ay %g", w.Ax, w.Ay)
	}

	// Transform down every column.
	tmp := rimg64.New(width, height)
	iyRaw := NewIntMap(width, height)
	colSrc := make([]float64, height)
	colDst := make([]float64, height)
	colArg := make([]int, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			colSrc[y] = -score.At(x, y)
		}
		distanceTransform1D(colSrc, colDst, colArg, w.Ay, w.By)
		for y := 0; y < height; y++ {
			tmp.Set(x, y, colDst[y])
			iyRaw.Set(x, y, colArg[y])
		}
	}

	// Transform along every row of the column-transformed plane.
	out := rimg64.New(width, height)
	ix := NewIntMap(width, height)
	rowSrc := make([]float64, width)
	rowDst := make([]float64, width)
	rowArg := make([]int, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rowSrc[x] = tmp.At(x, y)
		}
		distanceTransform1D(rowSrc, rowDst, rowArg, w.Ax, w.Bx)
		for x := 0; x < width; x++ {
			out.Set(x, y, -rowDst[x])
			ix.Set(x, y, rowArg[x])
		}
	}

	// Recover absolute source rows through the row argmin.
	iy := NewIntMap(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			iy.Set(x, y, iyRaw.At(ix.At(x, y), y))
		}
	}
	return out, ix, iy, nil
}
