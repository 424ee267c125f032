package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/stubhost/domain/ports"
)

// CatalogueParserFor returns the catalogue parser for a file, chosen by
// extension: .yaml and .yml use YAML, .hcl uses HCL.
func CatalogueParserFor(path string) (ports.CatalogueParser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return NewYamlCatalogueParser(), nil
	case ".hcl":
		return NewHclCatalogueParser(filepath.Base(path)), nil
	default:
		return nil, fmt.Errorf("unsupported catalogue format %q", ext)
	}
}
