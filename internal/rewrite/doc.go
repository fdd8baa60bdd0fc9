// Package rewrite turns a source file holding test logic functions into the
// generated test file.
//
// The output is the source file itself with three changes: every annotated
// function is renamed and preceded by a wrapper test carrying its original
// name, the build constraint that hides the source is negated, and the
// imports needed by the wrappers are added.
package rewrite
