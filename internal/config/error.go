package config

import (
	"fmt"
	"go/token"
)

// Error codes reported by the configuration parser.
const (
	CodeSyntax              = "invalid-directive"
	CodeUnsupportedProperty = "unsupported-property"
	CodeDuplicateProperty   = "duplicate-property"
	CodeUnsupportedKind     = "unsupported-kind"
	CodeKindRequired        = "kind-required"
	CodePathRequired        = "path-required"
	CodePathNotExist        = "path-not-exist"
	CodePathNotFile         = "path-not-file"
	CodeManifest            = "invalid-manifest"
	CodeUnsupportedShape    = "unsupported-shape"
)

// Error is a generation-time configuration error. It is reported before any
// code is produced.
type Error struct {
	Code    string
	Message string
	Pos     token.Position
}

// Error implements the error interface. If Pos is valid, the position is
// prepended to the message.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}

	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos.Filename, e.Message)
	}

	return e.Message
}

// Errorf returns an Error with a formatted message.
func Errorf(code string, pos token.Position, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}
