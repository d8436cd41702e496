// Package formats parses Wavefront geometry (.obj) and material library
// (.mtl) files into interleaved vertex buffers.
//
// Geometry is read in one of two modes. SingleMaterial produces one buffer
// for the whole file and resolves its diffuse texture through the material
// library. MultiMaterial partitions faces by their usemtl binding so each
// group can be drawn with its own material. Polygons are fan triangulated.
package formats
