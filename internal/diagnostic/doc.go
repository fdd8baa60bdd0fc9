// Package diagnostic collects the errors and warnings produced while turning
// directive-annotated functions into generated tests.
//
// Every diagnostic carries the source position of the directive or function
// it concerns, so the CLI can print compiler-style file:line:col messages.
package diagnostic
