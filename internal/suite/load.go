package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/parity-check/internal/schemas"
	"github.com/jonathan/parity-check/internal/types"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk encoding of a suite.
type Format string

// Supported suite formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the suite format from a file extension. Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a suite from a JSON or YAML file and validates it.
func Load(path string) (*types.Suite, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return Parse(content, FormatFromPath(path))
}

// Parse decodes suite content in the given format, checks it against the
// suite JSON schema and then runs struct validation.
func Parse(content []byte, format Format) (*types.Suite, error) {
	jsonContent := content
	if format == FormatYAML {
		var doc interface{}
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, &LoadError{Message: "failed to unmarshal YAML", Cause: err}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, &LoadError{Message: "failed to convert YAML to JSON", Cause: err}
		}
		jsonContent = converted
	}

	if err := schemas.ValidateDocument(schemas.SuiteSchema, jsonContent); err != nil {
		return nil, &InvalidError{Message: "schema check failed", Cause: err}
	}

	var s types.Suite
	if err := json.Unmarshal(jsonContent, &s); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}

	if err := s.Validate(); err != nil {
		return nil, &InvalidError{Message: "struct validation failed", Cause: err}
	}

	s.Viewport = s.Viewport.OrDefault()
	return &s, nil
}
