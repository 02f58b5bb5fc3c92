// Package tiling partitions a rectangular grid into small polyomino pieces.
//
// Given a requested piece count N, Generate picks a near-square grid that can
// hold at least max(N, 4) cells and walks it in row-major order. At every
// unowned cell it draws a shape from a weighted catalog:
//
//	shape              box   weight  requires
//	monomino           1x1   3       always
//	horizontal domino  1x2   2       2 free columns, >1 piece remaining
//	vertical domino    2x1   2       2 free rows, >1 piece remaining
//	L-tromino          2x2   1       2 free rows and columns, >2 remaining
//	horizontal I       1x3   1       3 free columns, >3 remaining
//	vertical I         3x1   1       3 free rows, >3 remaining
//
// The chosen bounding box is stamped into the grid; cells that are outside the
// grid or already owned are skipped. An L-tromino omits one randomly chosen
// corner of its 2x2 box. The omitted cell is not owned and a later piece may
// claim it.
//
// Generation stops as soon as N pieces exist, so cells may stay unassigned,
// and a grid that runs out of free cells yields fewer than N pieces. Both are
// valid results.
//
// # Randomness
//
// A Generator draws from any Rand (a *rand.Rand works). Tests inject a fixed
// source to make shape selection deterministic:
//
//	g := tiling.NewGenerator(rand.New(rand.NewSource(1)))
//	layout := g.Generate(12)
package tiling
