package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range []string{SuiteSchema, SnapshotSchema} {
		t.Run(name, func(t *testing.T) {
			content, err := Schema(name)
			require.NoError(t, err)

			var v map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(content), &v), "schema should be valid JSON")
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestSchema_Unknown(t *testing.T) {
	_, err := Schema("nope.schema.json")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateDocument_Suite(t *testing.T) {
	doc := `{
		"name": "landing",
		"viewport": {"width": 1440, "height": 900},
		"targets": [
			{"label": "heroTitle", "selector": "h1", "properties": ["fontSize"]}
		]
	}`
	assert.NoError(t, ValidateDocument(SuiteSchema, []byte(doc)))
}

func TestValidateDocument_SuiteMissingSelector(t *testing.T) {
	doc := `{"targets": [{"label": "heroTitle"}]}`

	err := ValidateDocument(SuiteSchema, []byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "selector")
}

func TestValidateDocument_SuiteEmptyTargets(t *testing.T) {
	err := ValidateDocument(SuiteSchema, []byte(`{"targets": []}`))
	assert.Error(t, err)
}

func TestValidateDocument_Snapshot(t *testing.T) {
	doc := `{
		"url": "http://127.0.0.1:4321/",
		"engine": "chromedp",
		"elements": {
			"heroTitle": {"found": true, "text": "Hello", "properties": {"fontSize": "60px"}},
			"ctaButton": {"found": false, "text": null, "properties": {}}
		}
	}`
	assert.NoError(t, ValidateDocument(SnapshotSchema, []byte(doc)))
}

func TestValidateDocument_SnapshotNonStringProperty(t *testing.T) {
	doc := `{
		"url": "http://127.0.0.1:4321/",
		"elements": {
			"heroTitle": {"found": true, "text": "Hello", "properties": {"fontSize": 60}}
		}
	}`

	err := ValidateDocument(SnapshotSchema, []byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "targets.0", Message: "selector is required"}}}
	assert.Equal(t, "validation failed:\n  1. targets.0: selector is required\n", err.Error())
}
