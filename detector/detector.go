package detector

import (
	"image"
	"math"
	"sort"

	"github.com/davidwangsg/PartsBasedDetector/dp"
	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/jvlmdr/go-cv/detect"
	"github.com/jvlmdr/go-cv/rimg64"
)

// ResponseProvider scores the appearance of every part mixture against
// a feature pyramid of the image. Planes are returned in parts.Layout
// order together with the number of scales.
type ResponseProvider interface {
	Responses(im image.Image) ([]*rimg64.Image, int, error)
}

// Geom maps response-grid coordinates back to image pixels.
type Geom struct {
	// CellSize is the side in pixels of one response cell at scale 0.
	CellSize int
	// Step is the downsampling factor between consecutive scales.
	Step float64
	// PartSize is the extent of one part filter in cells.
	PartSize image.Point
}

// factor returns pixels per cell at the given scale.
func (g Geom) factor(scale int) float64 {
	return float64(g.CellSize) * math.Pow(g.Step, float64(scale))
}

// partRect returns the pixel rectangle covered by a part placed at
// cell (x, y) of the given scale.
func (g Geom) partRect(x, y, scale int) image.Rectangle {
	a := g.factor(scale)
	x0 := int(math.Floor(float64(x) * a))
	y0 := int(math.Floor(float64(y) * a))
	x1 := int(math.Ceil(float64(x+g.PartSize.X) * a))
	y1 := int(math.Ceil(float64(y+g.PartSize.Y) * a))
	return image.Rect(x0, y0, x1, y1)
}

// Opts controls filtering of the candidate list.
// Set MinScore to -Inf to keep every candidate regardless of score.
type Opts struct {
	// DetFilter applies while scanning the root score planes: cells
	// below MinScore are dropped, and LocalMax restricts candidates to
	// spatial local optima.
	detect.DetFilter
	// Suppr drives non-max suppression of the scored detections. A nil
	// Overlap disables overlap tests; MaxNum <= 0 keeps all of them.
	Suppr detect.SupprFilter
}

// Detection is one suppressed, pixel-space detection together with the
// candidate it came from.
type Detection struct {
	detect.Det
	Cand parts.Candidate
}

// Detector ties a part tree, a response provider and the pyramid
// geometry into a detection call.
type Detector struct {
	Tree     *parts.Tree
	Provider ResponseProvider
	Geom     Geom
	Opts     Opts
}

// Detect runs the dynamic program over the image's response planes and
// returns scored detections, best first.
func (d *Detector) Detect(im image.Image) ([]Detection, error) {
	responses, nscales, err := d.Provider.Responses(im)
	if err != nil {
		return nil, err
	}
	tables, err := dp.Min(d.Tree, responses, nscales)
	if err != nil {
		return nil, err
	}
	cands, err := tables.CandidatesFilter(0, d.Opts.DetFilter)
	if err != nil {
		return nil, err
	}
	dets := make([]Detection, len(cands))
	for i, cand := range cands {
		dets[i] = Detection{
			Det:  detect.Det{Score: cand.Score, Rect: d.bounds(cand)},
			Cand: cand,
		}
	}
	sort.Sort(sort.Reverse(byScore(dets)))
	return suppress(dets, d.Opts.Suppr), nil
}

// bounds returns the union of the candidate's part rectangles.
func (d *Detector) bounds(cand parts.Candidate) image.Rectangle {
	var r image.Rectangle
	for _, loc := range cand.Parts {
		r = r.Union(d.Geom.partRect(loc.X, loc.Y, cand.Scale))
	}
	return r
}

type byScore []Detection

func (xs byScore) Len() int           { return len(xs) }
func (xs byScore) Less(i, j int) bool { return xs[i].Score < xs[j].Score }
func (xs byScore) Swap(i, j int)      { xs[i], xs[j] = xs[j], xs[i] }

// suppress applies greedy non-max suppression to the detections,
// carrying the candidate of each survivor along. dets must be sorted
// best first.
func suppress(dets []Detection, f detect.SupprFilter) []Detection {
	if f.Overlap == nil && f.MaxNum <= 0 {
		return dets
	}
	overlap := f.Overlap
	if overlap == nil {
		overlap = func(a, b image.Rectangle) bool { return false }
	}
	ds := make([]detect.Det, len(dets))
	for i, det := range dets {
		ds[i] = det.Det
	}
	inds := detect.SuppressIndex(detect.DetSlice(ds), f.MaxNum, overlap)
	keep := make([]Detection, len(inds))
	for i, ind := range inds {
		keep[i] = dets[ind]
	}
	return keep
}
