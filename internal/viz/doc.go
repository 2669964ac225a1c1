// Package viz provides terminal visualization of particle trajectories.
//
//   - [PlotComponents]: asciigraph line plots of x, y, z against step
//   - [Canvas]: Braille-based pixel canvas used for projected paths
//   - [LiveModel]: Bubble Tea view that steps a solver and draws its path
//
// # Key Bindings (live view)
//
//	Space - Pause/Resume
//	Tab   - Cycle projection plane (xy, xz, yz)
//	R     - Reset to initial state
//	+/-   - Steps per frame
//	Q     - Quit
package viz
