// Package layout parses layout descriptors into row-grouped panel structures.
//
// # Overview
//
// A layout descriptor is a short string that tells figpanel how many panels
// go on each row. Panels are identified by their input position (0..N-1) and
// are always assigned left-to-right, top-to-bottom in input order.
//
// # Descriptor Forms
//
// Three forms are recognized, checked in this order:
//
//   - Grid: "2x2", "3X1" fills a cols×rows grid row-major.
//   - Row counts: "2,1", "1-1-1", "AB-C" gives one row per token. A numeric
//     token is the row's panel count; any other token counts its characters,
//     so "AB" and "2" both mean two panels.
//   - Simple: "3" or "ABC" puts that many panels on a single row.
//
// Letters are positional placeholders only. "AB-C" and "XY-Z" describe the
// same structure.
//
// # Recovery
//
// Parsing never fails. A malformed descriptor produces no rows, and any input
// that the descriptor did not place is appended as one final row. Every input
// therefore appears exactly once in the resulting [Structure]:
//
//	s := layout.Parse("3", 5)
//	// s == Structure{{0, 1, 2}, {3, 4}}
package layout
