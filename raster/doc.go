// Package raster converts screen-space triangles into pixel fragments.
//
// Coordinates are pixels with pixel centers at integer positions. A pixel
// (x, y) is covered when all three barycentric weights of the point (x, y)
// are non-negative, so pixels on a shared edge are emitted for both
// triangles. Only counter-clockwise triangles (positive signed area) are
// rasterized.
package raster
