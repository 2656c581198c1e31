/*
Package detector assembles the dynamic-programming core into a
detection call on an image.

The detector itself performs no feature extraction: an external
ResponseProvider supplies one response plane per (scale, part,
mixture), and a Geom describes how response cells map back to image
pixels. Candidates from the dynamic program are filtered by score,
converted to scored rectangles and greedily suppressed.
*/
package detector
