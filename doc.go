// Package coloring implements the region-fill engine behind the coloring
// web service: background estimation, border-connectivity masking, and
// boundary-respecting flood fill over a raster image.
//
// # Overview
//
// A loaded sketch is represented as a [Raster], a flat RGBA pixel buffer
// owned by the caller. Three passes operate on it:
//
//  1. [EstimateBackground] samples the border of the image to estimate the
//     paper color and a similarity tolerance.
//  2. [BuildMask] runs a border-seeded breadth-first traversal that marks
//     every background-like pixel reachable from the canvas edge. Background
//     colored pixels enclosed by line strokes stay unmarked so they remain
//     fillable.
//  3. [Fill] flood-fills the tapped region with a palette color, constrained
//     by the mask and by color similarity to the tapped pixel.
//
// [Session] ties the three passes together for one loaded image, keeps the
// mask in sync with the raster, and maintains a bounded undo history.
//
// The engine is synchronous and allocation-light: masks and fills are single
// O(w·h) passes over the buffer with an explicit work queue. A Raster and
// its Session are owned by one goroutine at a time; no internal locking is
// performed.
//
// # Logging
//
// By default the package produces no log output. Call [SetLogger] to enable
// structured logging via log/slog.
package coloring
