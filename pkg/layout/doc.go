// Package layout turns a validated lineage graph into a geometrically
// laid-out diagram: positioned, non-overlapping nodes and routed edges with
// a consistent left-to-right reading direction.
//
// The algorithm is a layered (Sugiyama-style) directed-graph layout in four
// phases:
//
//  1. Cycle removal: a depth-first spanning forest is computed from the
//     graph's roots; any edge whose target is already on the DFS stack is a
//     back edge and is flipped for layering purposes only. The original
//     direction is restored on the emitted [RoutedEdge]s, so arrowheads
//     always render the direction the analysis service reported.
//  2. Layering: each node gets an integer rank equal to the longest path
//     from any source to it, so every (post-flip) edge points from a
//     strictly lower rank to a strictly higher rank.
//  3. Ordering: nodes within each rank are reordered by an iterative median
//     heuristic, alternating downward and upward sweeps up to a fixed cap,
//     to approximately minimize edge crossings. Ties keep the previous
//     order, so the result is deterministic.
//  4. Coordinates: ranks advance along the x axis, nodes within a rank are
//     spaced along y and centered; gaps shrink automatically once the graph
//     exceeds a density threshold.
//
// [Build] never fails on a validated graph: zero nodes yield an empty
// [Result] and a single node is placed with no edges. Each call produces a
// fresh result; nothing is mutated in place.
package layout
