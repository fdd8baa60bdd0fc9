// Package gen runs the generation pipeline over source files.
//
// For every function carrying the directive (or named by a manifest entry)
// the configuration is resolved, the signature extracted and the wrapper
// rendered by package emit. Package rewrite then assembles the output file,
// which is formatted with go/format. A source file with any error diagnostic
// produces no output.
package gen
