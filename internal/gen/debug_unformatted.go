package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes code that failed to format to a sidecar file
// next to the intended output. This is best-effort.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// Keep the .go extension for syntax highlighting without colliding with real output.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}
