// Package table implements the typed columnar table engine: per-column type
// inference over raw text, coercion into typed columns, and the projection,
// filter and sort operations over the result.
//
// # Pipeline
//
// Loading is split into two explicit phases so the inference rule can be
// tested on its own:
//
//	raw, _ := table.New("quakes.csv", table.NewStringColumn("magnitude", values))
//	decisions := table.Infer(raw)        // one TypeDecision per column
//	typed, err := table.Coerce(raw, decisions)
//
// Typed runs both phases.
//
// # Inference
//
// A value may be compatible with Boolean ("true", "false", "1", "0" in any
// case), Integer (base-10, optional sign) and Float (decimal). The first
// value of a column seeds the candidate types; every later value can only
// remove candidates. The narrowest surviving type wins, and a column with no
// candidate left stays String.
//
// # Operations
//
// Tables are immutable. Project, Filter and Sort return new tables that
// share no mutable state with their input, so a table can be read from any
// number of goroutines. Filter and Sort compute a list of row indices on the
// reference column and gather every column through that same list, which
// keeps rows aligned across columns.
//
//	big, err := table.Filter(typed, "magnitude", table.GreaterEqual, 7.5)
//	byDepth, err := table.Sort(big, "depth", true)
//	view := byDepth.Project("magnitude", "depth")
package table
