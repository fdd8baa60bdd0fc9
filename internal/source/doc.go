// Package source finds and parses the Go files that hold test logic
// functions.
package source
