// Package config reads the configuration attached to a test logic function.
//
// The configuration is either a directive in the function's doc comment:
//
//	//datafile:test path="testdata/test_me.list" kind="list"
//
// or an entry of a YAML manifest naming the source file and the function.
// Both forms end up as a FileReference whose path has been checked on disk
// and whose kind has been resolved.
package config
