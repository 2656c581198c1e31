package parts

// PartLoc is the placement of one part within a candidate: its cell in
// the response grid at the candidate's scale and its chosen mixture.
type PartLoc struct {
	X, Y    int
	Mixture int
}

// Candidate is one complete detected configuration: a placement for
// every part, the scale it was found at, and the total score of the
// configuration. Parts is indexed by arena index.
type Candidate struct {
	Scale int
	Score float64
	Parts []PartLoc
}
