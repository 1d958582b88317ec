// Package pixelsort sorts contiguous runs of pixels whose contrast attribute
// lies in a band, along rows or columns of every image in a directory.
//
// The executable lives in cmd/pixelsort; the engine is split into
// internal/colorattr, internal/mask and internal/sorter.
package pixelsort
