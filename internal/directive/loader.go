package directive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dto-generator/internal/common"
	"dto-generator/internal/descriptor"
)

const (
	formStruct = "struct"
	formEnum   = "enum"
)

// LoadFile loads and parses a YAML descriptor file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse descriptor YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.External != "" {
		alias := common.PkgAlias(f.External)
		if f.Imports == nil {
			f.Imports = make(map[string]string)
		}

		if _, ok := f.Imports[alias]; !ok {
			f.Imports[alias] = f.External
		}
	}

	for i := range f.Types {
		t := &f.Types[i]
		if t.Form == "" {
			t.Form = formStruct
			if len(t.Variants) > 0 {
				t.Form = formEnum
			}
		}

		if t.Form == descriptor.FormOneof.String() && t.LocalArmPrefix == "" {
			t.LocalArmPrefix = t.Name + "_"
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write descriptor file %s: %w", path, err)
	}

	return nil
}
