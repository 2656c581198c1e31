/*
Package parts describes a tree-structured model of an articulated object.

A model is a rooted tree of rigid parts, each positioned relative to its
parent by a 2D anchor and a quadratic deformation cost, with several
alternative appearance mixtures per part. The tree is an arena of nodes
addressed by integer index so that it can be shared, read-only, across
concurrent detections:

	ps := []parts.Part{
		{Children: []int{1}, W: ws, Bias: bias, Anchor: image.Pt(0, 0)},
		{W: ws, Bias: bias, Anchor: image.Pt(3, 1)},
	}
	tree, err := parts.NewTree(ps, 0)

The response planes consumed by package dp are addressed through a
Layout, which fixes the linear order (scale, then part, then mixture).
*/
package parts
