package cmd

import (
	"fmt"
	"os"

	"github.com/dukex/leadflow/pkg/catalog"
)

// NewCatalog loads the catalog at path, or the embedded one when path is empty.
func NewCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	return catalog.Load(f)
}
