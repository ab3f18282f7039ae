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

// WriteFiles writes all generated files to the output directory and returns
// the paths it wrote. It creates the directory if it doesn't exist. Files
// whose content is unchanged are left alone so their modification time stays.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		if old, err := os.ReadFile(outputPath); err == nil && bytes.Equal(old, file.Content) {
			continue
		}

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		written = append(written, outputPath)
	}

	return written, nil
}
