package gen

import (
	"os"
	"path/filepath"
)

// writeDebugUnformatted writes the text that failed to parse or format next
// to the intended output. This is best-effort.
func writeDebugUnformatted(outPath string, content []byte) error {
	if outPath == "" || len(content) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), dirPerm); err != nil {
		return err
	}

	// Not a .go file, so a broken sidecar never breaks the package build.
	return os.WriteFile(outPath+".unformatted", content, filePerm)
}
