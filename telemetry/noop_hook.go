// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"context"

	multiextract "github.com/hashicorp/go-multiextract"
)

// NoopHook is a no operation telemetry hook.
func NoopHook(ctx context.Context, td *multiextract.TelemetryData) {
	// noop
}

// logger is the logging interface of the hooks. It is satisfied by *slog.Logger.
type logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// LogHook returns a hook that logs the telemetry data.
func LogHook(l logger) multiextract.TelemetryHook {
	return func(ctx context.Context, td *multiextract.TelemetryData) {
		l.Info("extraction finished", "telemetry", td.String())
	}
}

// Chain returns a hook that calls all hooks in order.
func Chain(hooks ...multiextract.TelemetryHook) multiextract.TelemetryHook {
	return func(ctx context.Context, td *multiextract.TelemetryData) {
		for _, h := range hooks {
			if h != nil {
				h(ctx, td)
			}
		}
	}
}
