package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/parity-check/internal/schemas"
	"github.com/jonathan/parity-check/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *types.Snapshot {
	return &types.Snapshot{
		RunID:      uuid.MustParse("8b1d6f0e-4f55-4c4d-9a55-0e5d0b2f8d11"),
		URL:        "https://example.com",
		Engine:     "chromedp",
		Viewport:   types.Viewport{Width: 1440, Height: 900},
		CapturedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Elements: map[string]types.ElementCapture{
			"heroTitle": types.Present("Gain 2 Hours Daily with Jace", map[string]string{"fontSize": "60px", "color": "rgb(17, 24, 39)"}),
			"ctaButton": types.Missing(),
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reference.snapshot.json", FileName("reference"))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName("reference"))

	require.NoError(t, Save(path, sample()))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, sample().Elements, loaded.Elements)
	assert.Equal(t, sample().RunID, loaded.RunID)
	assert.True(t, sample().CapturedAt.Equal(loaded.CapturedAt))
}

func TestMarshal_Deterministic(t *testing.T) {
	first, err := Marshal(sample())
	require.NoError(t, err)
	second, err := Marshal(sample())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), `"text": null`)
}

func TestSave_MatchesSchema(t *testing.T) {
	data, err := Marshal(sample())
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateDocument(schemas.SnapshotSchema, data))
}

func TestLoad_RejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"url":"x","elements":{"a":{"found":"yes"}}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed schema check")
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
