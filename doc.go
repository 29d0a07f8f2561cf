// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package multiextract extracts a list of archives in one run.
//
// [Extract] opens every archive with an [Engine], selects the entries with a [Censor] and
// writes them to a [Target], which can be the OS file system or memory. Volumes of split
// archives are only extracted once, together with their first volume. Progress and
// results are reported to a [Callback].
//
// Configuration is done using the [Config], which sets the output directory template, the
// overwrite and path modes, the logger and the telemetry hook. The default engine is
// provided by the engine package, the telemetry package publishes the collected
// [TelemetryData].
package multiextract
