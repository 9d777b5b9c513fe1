package compiler

import "kompilator/internal/ast"

// ReserveIteratorCapacity scans prog once, ahead of any code generation, to
// size the iterator cell region the allocator carves out immediately after
// the permanently reserved scratch cells (spec.md §4.6).
//
// The scan only follows nesting through FOR loop bodies. A FOR loop guarded
// by an IF, WHILE, or REPEAT is not descended into, so its nested FORs
// don't contribute to the depth count. This mirrors a quirk in the tool
// this was distilled from, which walked only the program's top-level
// command list looking for FOR-in-FOR nesting and never recursed into
// conditional or pre/post-tested loop bodies. Programs that rely on deep
// FOR nesting exclusively inside an IF or WHILE will under-reserve and can
// see iterator cells reused across what look like independent loops; this
// is preserved rather than silently fixed (SPEC_FULL.md §12).
func ReserveIteratorCapacity(mem *Allocator, prog *ast.Program) {
	// Each nesting level needs two cells: the visible iterator and a hidden
	// cell holding its upper (or lower) bound, snapshotted once at loop
	// entry so later assignments to a variable used as a bound don't change
	// an in-flight loop's trip count.
	const cellsPerLevel = 2
	mem.ReserveIterators(cellsPerLevel * maxNestedFors(prog.Stmts))
}

func maxNestedFors(stmts []ast.Stmt) int {
	best := 0
	for _, s := range stmts {
		var depth int
		switch st := s.(type) {
		case *ast.ForToStmt:
			depth = 1 + maxNestedFors(st.Body)
		case *ast.ForDtStmt:
			depth = 1 + maxNestedFors(st.Body)
		default:
			continue
		}
		if depth > best {
			best = depth
		}
	}
	return best
}
