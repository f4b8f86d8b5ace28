// Package render composes the field sampler, heatmap rasterizer and contour
// extractor into draw passes against an abstract [Surface].
//
// Two plots are drawn: the parameter-space plot ([FieldRenderer.DrawField])
// with the MSE heatmap, isolines and the current (a, b) marker, and the
// data-space plot ([FieldRenderer.DrawData]) with the points and the
// candidate line. The renderer never checks for optional capabilities; the
// surface it is handed is all it draws on.
package render
