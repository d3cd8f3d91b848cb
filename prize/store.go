package prize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// catalogFile is the on-disk catalog format: {"prizes": [...]}.
type catalogFile struct {
	Prizes Catalog `json:"prizes"`
}

// LoadFile reads and validates a catalog JSON file.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := f.Prizes.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return f.Prizes, nil
}

// Load returns the catalog at path, or DefaultCatalog when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	return LoadFile(path)
}

// SaveFile writes the catalog in the format LoadFile reads.
func SaveFile(path string, c Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalogFile{Prizes: c}, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
