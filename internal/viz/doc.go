// Package viz draws the MSE landscape in the terminal and animates gradient
// descent across it.
//
//   - [Canvas]: half-block colour canvas implementing render.Surface
//   - [Model]: live Bubble Tea view driven by an anim.Animator
//   - [Picker]: preset menu that opens the live view
//   - Theme selection pairing chrome colours with a heatmap colormap
//
// # Key Bindings
//
//	Space - Pause/Resume (restarts once the path is exhausted)
//	R     - Rewind to the first step
//	D     - Descend again from the configured start
//	N     - Replace the data with random points
//	+/-   - Change the step period
//	T     - Cycle themes
//	?     - Show help overlay
package viz
