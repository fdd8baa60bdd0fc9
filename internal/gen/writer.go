package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files. Directories are created as needed.
// Files whose content is unchanged are left alone.
func WriteFiles(files []GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file.Filename), dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		if old, err := os.ReadFile(file.Filename); err == nil && bytes.Equal(old, file.Content) {
			continue
		}

		if err := os.WriteFile(file.Filename, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// Stale reports the files whose content on disk differs from the generated
// content, or which do not exist.
func Stale(files []GeneratedFile) []string {
	var stale []string

	for _, file := range files {
		old, err := os.ReadFile(file.Filename)
		if err != nil || !bytes.Equal(old, file.Content) {
			stale = append(stale, file.Filename)
		}
	}

	return stale
}
