// Package mesh drives a kernel.Kernel through the stages of planar mesh
// generation on a vu.Graph: boundary load, regularization, optional
// boolean composition, triangulation and smoothing.
//
// A Pipeline owns its graph. Each stage method checks that the pipeline is
// in a stage it may run from and returns ErrStageOrder otherwise.
package mesh
