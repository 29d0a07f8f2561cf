// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
	"github.com/golang/mock/gomock"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multiextract/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEventsAPI(ctrl)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	td := &multiextract.TelemetryData{RunID: "run-1", Archives: 2, Formats: []string{"7z"}}

	client.EXPECT().PutEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *cloudwatchevents.PutEventsInput, _ ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error) {
			require.Len(t, in.Entries, 1)
			e := in.Entries[0]
			assert.Equal(t, "bus", aws.ToString(e.EventBusName))
			assert.Equal(t, "tests", aws.ToString(e.Source))
			assert.Equal(t, EventDetailType, aws.ToString(e.DetailType))
			assert.Equal(t, fixed, aws.ToTime(e.Time))

			var detail map[string]any
			require.NoError(t, json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail))
			assert.Equal(t, "run-1", detail["run_id"])
			return &cloudwatchevents.PutEventsOutput{}, nil
		})

	p := NewEventPublisher(client, "bus", WithEventSource("tests"))
	require.NoError(t, p.Publish(context.Background(), td))
}

func TestPublishRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEventsAPI(ctrl)

	client.EXPECT().PutEvents(gomock.Any(), gomock.Any()).Return(&cloudwatchevents.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorMessage: aws.String("bus not found")}},
	}, nil)

	p := NewEventPublisher(client, "bus")
	err := p.Publish(context.Background(), &multiextract.TelemetryData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus not found")
}

func TestHookLogsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEventsAPI(ctrl)
	client.EXPECT().PutEvents(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("network down"))

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	// cancelled run context does not prevent publishing
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewEventPublisher(client, "bus", WithPublisherLogger(l)).Hook()(ctx, &multiextract.TelemetryData{RunID: "run-2"})
	assert.Contains(t, buf.String(), "cannot publish telemetry")
	assert.Contains(t, buf.String(), "run-2")
}

func TestChain(t *testing.T) {
	var calls []string
	hook := Chain(
		func(ctx context.Context, td *multiextract.TelemetryData) { calls = append(calls, "a") },
		nil,
		NoopHook,
		func(ctx context.Context, td *multiextract.TelemetryData) { calls = append(calls, "b") },
	)
	hook(context.Background(), &multiextract.TelemetryData{})
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestLogHook(t *testing.T) {
	var buf bytes.Buffer
	LogHook(slog.New(slog.NewTextHandler(&buf, nil)))(context.Background(), &multiextract.TelemetryData{RunID: "run-3"})
	assert.Contains(t, buf.String(), "run-3")
}
