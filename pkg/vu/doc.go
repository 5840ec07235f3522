// Package vu implements the vertex-use planar topology graph.
//
// Every node is one incidence of a vertex with a face. A node stores only
// two links: its face successor (next node counterclockwise around the
// same face) and its vertex successor (next node counterclockwise around
// the same vertex). Predecessors and the edge mate are derived from those
// two links in at most three hops.
//
// Nodes live in an arena owned by the Graph and are addressed by NodeID.
// A Graph is not safe for concurrent mutation; concurrent read-only
// navigation is fine.
package vu
