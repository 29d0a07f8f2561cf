// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hashicorp/go-multierror"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multiextract/censor"
	"github.com/hashicorp/go-multiextract/cmd"
	"github.com/hashicorp/go-multiextract/engine"
	"github.com/hashicorp/go-multiextract/telemetry"
)

// Event is the input of the function.
type Event struct {
	Archives   []string `json:"archives"`
	OutputDir  string   `json:"output_dir"`
	Overwrite  string   `json:"overwrite"`
	Password   string   `json:"password"`
	Include    []string `json:"include"`
	Exclude    []string `json:"exclude"`
	Test       bool     `json:"test"`
	ElimDup    bool     `json:"elim_dup"`
	Smart      bool     `json:"smart_extract"`
	FormatHint []string `json:"format_hints"`
}

// Response is the output of the function.
type Response struct {
	Stat         multiextract.DecompressStat `json:"stat"`
	ErrorMessage string                      `json:"error_message,omitempty"`
	ItemErrors   []string                    `json:"item_errors,omitempty"`
}

// handler extracts the archives of an event. Fatal failures are returned as error,
// failures of single entries are part of the response.
func handler(ctx context.Context, ev Event) (Response, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	overwrite, err := cmd.ParseOverwriteMode(ev.Overwrite)
	if err != nil {
		return Response{}, err
	}
	c, err := censor.New(censor.WithInclude(ev.Include...), censor.WithExclude(ev.Exclude...))
	if err != nil {
		return Response{}, err
	}

	opts := []multiextract.ConfigOption{
		multiextract.WithElimDup(ev.ElimDup),
		multiextract.WithFormatHints(ev.FormatHint...),
		multiextract.WithLogger(logger),
		multiextract.WithOutputDir(ev.OutputDir),
		multiextract.WithOverwriteMode(overwrite),
		multiextract.WithSmartExtract(ev.Smart),
		multiextract.WithTestMode(ev.Test),
	}
	if ev.Password != "" {
		opts = append(opts, multiextract.WithProperty(engine.PropPassword, ev.Password))
	}
	hook := telemetry.LogHook(logger)
	if bus := os.Getenv("MULTIEXTRACT_EVENT_BUS"); bus != "" {
		client, err := telemetry.NewEventsClient(ctx, "")
		if err != nil {
			return Response{}, err
		}
		hook = telemetry.Chain(hook, telemetry.NewEventPublisher(client, bus, telemetry.WithPublisherLogger(logger)).Hook())
	}
	opts = append(opts, multiextract.WithTelemetryHook(hook))

	cb := cmd.NewConsoleCallback(os.Stdout, false)
	res, err := multiextract.Extract(ctx, engine.New(engine.WithLogger(logger)), ev.Archives, c, cb, multiextract.NewConfig(opts...))
	if err != nil {
		return Response{}, err
	}

	resp := Response{Stat: res.Stat, ErrorMessage: res.ErrorMessage}
	if merr, ok := res.ItemErrors.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			resp.ItemErrors = append(resp.ItemErrors, e.Error())
		}
	} else if res.ItemErrors != nil {
		resp.ItemErrors = []string{res.ItemErrors.Error()}
	}
	return resp, nil
}

func main() {
	lambda.Start(handler)
}
