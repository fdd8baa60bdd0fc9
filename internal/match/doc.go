// Package match suggests close names for misspelled identifiers.
//
// It backs the "did you mean" hints of generation diagnostics: unknown
// directive properties, unsupported kinds and manifest entries naming a
// function that does not exist.
//
// Key functions:
//   - NormalizeIdent: folds case and separators for comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest candidate above a similarity threshold
package match
