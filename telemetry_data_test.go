// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDataString tests the String method of the data struct
func TestDataString(t *testing.T) {
	m := TelemetryData{
		RunID:               "run",
		Archives:            2,
		ExtractionDuration:  5 * time.Millisecond,
		ExtractionErrors:    1,
		LastExtractionError: fmt.Errorf("example error"),
		Formats:             []string{"7z", "zip"},
		Stat:                DecompressStat{NumArchives: 2, NumFiles: 3},
	}

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(m.String()), &got))
	assert.Equal(t, "example error", got["last_extraction_error"])
	assert.Equal(t, "run", got["run_id"])
	assert.Equal(t, float64(5000000), got["extraction_duration"])
	assert.Equal(t, []any{"7z", "zip"}, got["formats"])
	assert.Equal(t, float64(3), got["stat"].(map[string]any)["num_files"])
}

func TestNewTelemetryData(t *testing.T) {
	td := newTelemetryData()
	_, err := uuid.Parse(td.RunID)
	assert.NoError(t, err)
	assert.NotEqual(t, td.RunID, newTelemetryData().RunID)
}

func TestCaptureExtractionDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time { return start.Add(3 * time.Second) }
	t.Cleanup(func() { now = time.Now })

	td := &TelemetryData{}
	captureExtractionDuration(td, start)
	assert.Equal(t, 3*time.Second, td.ExtractionDuration)
}
