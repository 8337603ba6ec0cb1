// Package wireframe renders the module tiling of a dome as a 3D wireframe.
//
// # Scene
//
// [Build] turns a [geometry.Layout] into a [Scene]: one quad per module,
// the equator ring, a meridian at every column boundary and a parallel at
// every row boundary, plus an optional room box and dimension labels. All
// coordinates are millimetres with the sphere centered on the origin and +Z
// up.
//
// # Projection
//
// [Scene.Project] flattens the scene for a [Camera] with an orthographic
// projection. Elevation and azimuth follow the usual 3D-plot convention:
// azimuth rotates about +Z starting from +X, elevation tilts the eye above
// the XY plane. Faces are returned back to front so sinks can paint them in
// order.
//
// Two presets match the customer preview: [ViewA] (elevation 0°, azimuth
// 180°) looks at the display from behind the center, and [ViewB]
// (elevation 15°, azimuth 230°) shows it from above and to the side.
//
// [geometry.Layout]: github.com/matzehuels/domespec/pkg/geometry#Layout
package wireframe
