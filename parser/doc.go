// Package parser turns the lines of a MediaWiki SQL dump into table metadata
// and row values.
//
// The parser does not implement a SQL grammar. Header lines are recognised by
// their prefix (see Classify), and INSERT statements are split into row-tuples
// on the literal separator "),(" before each tuple is read as a delimited record.
//
// # Known limitations
//
// Both heuristics can misfire on pathological field content:
//   - a quoted value that literally contains "),(" is split into two tuples
//   - a quoted value that contains ",NULL," (or "(NULL)" and similar) loses the
//     NULL marker, because bare NULL detection only looks at the neighbouring
//     characters
//
// MediaWiki dumps rarely contain such values, and the behaviour is kept as is.
package parser
