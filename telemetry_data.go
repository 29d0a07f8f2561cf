// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TelemetryData holds all telemetry data of an extraction run.
type TelemetryData struct {
	// RunID identifies the extraction run
	RunID string `json:"run_id"`

	// Archives is the number of archive paths passed to the run
	Archives int64 `json:"archives"`

	// ExtractionDuration is the time it took to process all archives
	ExtractionDuration time.Duration `json:"extraction_duration"`

	// ExtractionErrors is the number of items that failed
	ExtractionErrors int64 `json:"extraction_errors"`

	// LastExtractionError is the last error during extraction
	LastExtractionError error `json:"last_extraction_error"`

	// OpenFailures is the number of archives that could not be opened
	OpenFailures int64 `json:"open_failures"`

	// SkippedVolumes is the number of paths skipped because they belong to a volume set
	SkippedVolumes int64 `json:"skipped_volumes"`

	// DirExcluded is the number of directory entries skipped by the exclusion flags
	DirExcluded int64 `json:"dir_excluded"`

	// FileExcluded is the number of file entries skipped by the exclusion flags
	FileExcluded int64 `json:"file_excluded"`

	// AltStreamsSkipped is the number of alternate streams that were not selected
	AltStreamsSkipped int64 `json:"alt_streams_skipped"`

	// CensorMismatches is the number of entries rejected by the censor
	CensorMismatches int64 `json:"censor_mismatches"`

	// ExistingSkipped is the number of files kept because they already existed
	ExistingSkipped int64 `json:"existing_skipped"`

	// Formats lists the formats of the opened archives, innermost handle of each chain
	Formats []string `json:"formats"`

	// Stat are the aggregated statistics
	Stat DecompressStat `json:"stat"`
}

// newTelemetryData creates telemetry data with a fresh run id.
func newTelemetryData() *TelemetryData {
	return &TelemetryData{RunID: uuid.NewString()}
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastExtractionError != nil {
		lastError = m.LastExtractionError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastExtractionError string `json:"last_extraction_error"`
		*Alias
	}{
		LastExtractionError: lastError,
		Alias:               (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after an extraction run has finished which can be used to submit the [TelemetryData]
// to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureExtractionDuration captures the duration of the extraction
func captureExtractionDuration(td *TelemetryData, start time.Time) {
	td.ExtractionDuration = now().Sub(start)
}
