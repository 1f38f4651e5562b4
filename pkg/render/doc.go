// Package render draws a single trace step as terminal text.
//
// Renderers are pure: the output depends only on the step, the algorithm kind
// and the renderer's styling profile. Roles recorded in the step's highlights
// decide how each element is marked, so nothing is recomputed here.
package render
