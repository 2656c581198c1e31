/*
Package dp performs pictorial-structures inference over a part tree.

Given one response plane per (part, mixture, scale), produced
externally by scoring part filters against a feature pyramid, the
dynamic program passes messages from the leaves to the root of the
tree using a generalized distance transform, then walks back down to
recover full part configurations:

	tables, err := dp.Min(tree, responses, numScales)
	if err != nil {
		return err
	}
	cands, err := tables.ArgMin()

Each message combines a quadratic deformation cost with the child's
accumulated score (Felzenszwalb and Huttenlocher, "Pictorial
Structures for Object Recognition", IJCV 2005), so the score at the
root is the globally optimal joint placement of all parts.

The caller's response planes are never modified; the sweep works on a
private copy and retains the argmin planes needed for backtracking.
*/
package dp
