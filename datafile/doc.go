// Package datafile is the runtime half of datafile-gen: the registry of
// supported data file kinds and the decoders that generated tests call.
//
// A generated test declares a local record struct mirroring the parameters of
// the function under test and asks this package for the records:
//
//   - list files: ReadList skips the header line and yields whitespace-split
//     lines; ParseField converts each token to the parameter's type.
//   - csv files: ReadCSV binds the header row to the record's `csv` tags.
//   - json, yaml, toml and ron files: Decode accepts either a list of records
//     or a map of records.
//
// The package never interprets sentinel values such as "None"; optional
// values are expressed with pointer types where the format allows it.
package datafile
