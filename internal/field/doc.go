// Package field samples scalar functions over a rectangular parameter domain.
//
// The package defines the data model shared by the rasterizer and the
// contour extractor:
//
//   - [Domain]: rectangular bounds on the two parameter axes u and v
//   - [SampleGrid]: immutable row-major samples with observed min/max
//   - [Param]: one point in parameter space
//   - [Point]: one data point in data space
//
// # Layout
//
// Samples are stored row-major with rows indexed by v and columns by u, so
// the value at column i and row j lives at index j*NX()+i. Row 0 holds
// VMin; the last row holds VMax.
//
// # Example
//
//	f, _ := field.MSE([]field.Point{{X: 2, Y: 8}, {X: 4, Y: 3}})
//	grid, _ := field.Sample(f, field.Domain{UMin: -2.5, UMax: 2.5, VMin: -5, VMax: 12}, 120, 120)
//	i, j := grid.ArgMin()
package field
