// Package emit renders the body of a generated data-driven test.
//
// One template exists per datafile.Family. Every template loads the records,
// fails the test when there are none, and calls the renamed test logic
// function once per record with the record's fields in parameter order.
package emit
