package parts

// Layout fixes the linear order of response planes.
// Planes are grouped by scale, then by part, then by mixture, so any
// provider of response planes must emit them in exactly this order.
type Layout struct {
	NumParts    int
	NumMixtures int
	NumScales   int
}

// At returns the index of the plane for the given scale, part and
// mixture.
func (l Layout) At(scale, part, mixture int) int {
	return l.NumParts*l.NumMixtures*scale + l.NumMixtures*part + mixture
}

// Len returns the total number of planes.
func (l Layout) Len() int {
	return l.NumParts * l.NumMixtures * l.NumScales
}
