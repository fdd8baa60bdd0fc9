package datafile

import (
	"path/filepath"
	"strings"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind identifies the layout of a test data file.
type Kind int

const (
	_ Kind = iota // zero value is an unresolved kind

	CSV  // csv
	JSON // json
	YAML // yaml
	RON  // ron
	TOML // toml
	List // list

	// kindTotal is the number of values above, including the invalid zero value.
	kindTotal = int(iota)
)

// Family groups kinds that share one decoding strategy.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyList
	FamilyCSV
	FamilyStructured
)

// String returns a human-readable family name.
func (f Family) String() string {
	switch f {
	case FamilyList:
		return "list"
	case FamilyCSV:
		return "csv"
	case FamilyStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// extraExtensions lists file extensions accepted besides the kind name itself.
var extraExtensions = map[string]Kind{
	"yml": YAML,
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindTotal-1)
	for k := Kind(1); int(k) < kindTotal; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k > 0 && int(k) < kindTotal
}

// Family returns the decoding strategy family of k.
func (k Kind) Family() Family {
	switch k {
	case List:
		return FamilyList
	case CSV:
		return FamilyCSV
	case JSON, YAML, RON, TOML:
		return FamilyStructured
	default:
		return FamilyUnknown
	}
}

// Extensions returns the file extensions (without the dot) that imply k.
func (k Kind) Extensions() []string {
	if !k.Valid() {
		return nil
	}

	exts := []string{k.String()}
	for ext, kind := range extraExtensions {
		if kind == k {
			exts = append(exts, ext)
		}
	}

	return exts
}

// ParseKind returns the kind whose textual name is s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// KindFromPath derives a kind from the extension of path. Matching is exact on
// the extension text, so "DATA.JSON" does not resolve.
func KindFromPath(path string) (Kind, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}

	if k, ok := ParseKind(ext); ok {
		return k, true
	}

	k, ok := extraExtensions[ext]

	return k, ok
}
