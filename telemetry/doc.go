// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package telemetry provides telemetry hooks that submit the [multiextract.TelemetryData]
// of an extraction run.
//
// The hooks are passed to the configuration of a run:
//
//	cfg := multiextract.NewConfig(
//		multiextract.WithTelemetryHook(telemetry.LogHook(logger)),
//	)
package telemetry
