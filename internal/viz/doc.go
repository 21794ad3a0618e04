// Package viz draws scene documents without a renderer.
//
// A [Projector] maps world coordinates onto a 2D surface for one of three
// views: [Side] (x/y), [Top] (x/z) or [CameraView], which projects through
// the document's own pinhole camera. [Preview] uses it to draw a frame onto
// a Braille [Canvas] in the terminal; the export package uses it for SVG.
package viz
