package emit

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExportName turns a parameter name into an exported Go identifier.
func ExportName(name string) string {
	name = cases.Title(language.Und, cases.NoLower).String(name)

	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(r) {
		name = "F" + name
	}

	return name
}
