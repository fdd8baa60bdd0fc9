// Package signature reads the parameter list of a test logic function.
//
// Parameters typed *testing.T, testing.TB or context.Context are supplied by
// the generated test. Every other parameter is bound to a field of the data
// file's records and becomes part of the Schema, in declaration order.
package signature
