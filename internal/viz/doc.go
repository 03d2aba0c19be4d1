// Package viz renders controller output for the terminal.
//
// It provides:
//
//   - lipgloss styles and a titled key/value [Panel] for gain reports
//   - [Chart], a thin asciigraph wrapper for per-tick series
//   - [Canvas] and [TrackMap], a braille top-down view of the path and the
//     driven trajectory
//   - [TrackSVG] for the same view as a standalone SVG file
package viz
