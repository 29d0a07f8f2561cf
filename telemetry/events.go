// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/pkg/errors"
)

const (
	// DefaultEventSource is the source of the published events.
	DefaultEventSource = "go-multiextract"

	// EventDetailType is the detail type of the published events.
	EventDetailType = "Extraction Finished"

	// defaultPublishTimeout limits the time spent publishing an event.
	defaultPublishTimeout = 5 * time.Second
)

// EventsAPI is the part of the CloudWatch Events client used by the publisher.
type EventsAPI interface {
	PutEvents(ctx context.Context, params *cloudwatchevents.PutEventsInput, optFns ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error)
}

// EventPublisher submits telemetry data as events to a CloudWatch Events bus.
type EventPublisher struct {
	client  EventsAPI
	bus     string
	source  string
	timeout time.Duration
	logger  logger
}

// PublisherOption configures an [EventPublisher].
type PublisherOption func(*EventPublisher)

// WithEventSource sets the source of the events.
func WithEventSource(source string) PublisherOption {
	return func(p *EventPublisher) {
		p.source = source
	}
}

// WithPublishTimeout sets the timeout of a publish call.
func WithPublishTimeout(timeout time.Duration) PublisherOption {
	return func(p *EventPublisher) {
		p.timeout = timeout
	}
}

// WithPublisherLogger sets the logger that reports failed publish calls.
func WithPublisherLogger(l logger) PublisherOption {
	return func(p *EventPublisher) {
		p.logger = l
	}
}

// NewEventPublisher creates a publisher that sends events to bus using client.
func NewEventPublisher(client EventsAPI, bus string, opts ...PublisherOption) *EventPublisher {
	p := &EventPublisher{
		client:  client,
		bus:     bus,
		source:  DefaultEventSource,
		timeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewEventsClient creates a CloudWatch Events client from the default AWS configuration,
// i.e. environment, shared config files and instance roles.
func NewEventsClient(ctx context.Context, region string) (*cloudwatchevents.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load aws configuration")
	}
	return cloudwatchevents.NewFromConfig(cfg), nil
}

// Publish sends td as one event.
func (p *EventPublisher) Publish(ctx context.Context, td *multiextract.TelemetryData) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.client.PutEvents(ctx, &cloudwatchevents.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			Detail:       aws.String(td.String()),
			DetailType:   aws.String(EventDetailType),
			EventBusName: aws.String(p.bus),
			Source:       aws.String(p.source),
			Time:         aws.Time(now()),
		}},
	})
	if err != nil {
		return errors.Wrap(err, "cannot put telemetry event")
	}
	if out.FailedEntryCount > 0 {
		msg := "unknown error"
		if len(out.Entries) > 0 && out.Entries[0].ErrorMessage != nil {
			msg = aws.ToString(out.Entries[0].ErrorMessage)
		}
		return fmt.Errorf("telemetry event rejected: %s", msg)
	}
	return nil
}

// Hook returns a telemetry hook that publishes the data of a run. Failures are logged.
func (p *EventPublisher) Hook() multiextract.TelemetryHook {
	return func(ctx context.Context, td *multiextract.TelemetryData) {
		// the run context may already be cancelled
		if err := p.Publish(context.WithoutCancel(ctx), td); err != nil && p.logger != nil {
			p.logger.Warn("cannot publish telemetry", "run_id", td.RunID, "error", err)
		}
	}
}

// now is a function point that returns time.Now to the caller.
var now = time.Now
