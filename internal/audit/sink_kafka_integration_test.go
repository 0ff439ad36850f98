//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"certvault/internal/platform/config"
	"certvault/pkg/testutil/containers"
)

func TestKafkaSinkProducesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	const topic = "certvault.audit.test"
	rp := containers.NewRedpandaContainer(t)
	rp.CreateTopic(t, topic)

	sink, err := NewKafkaSink(config.KafkaConfig{
		Brokers:    []string{rp.Broker},
		AuditTopic: topic,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	ctx := context.Background()
	event := Event{
		Timestamp: time.Now().UTC(),
		Phone:     "+919876543210",
		Action:    ActionUserRegistered,
		RequestID: "req-123",
	}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []byte(event.Phone), records[0].Key, "events are keyed by phone")

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.Action, got.Action)
	assert.Equal(t, event.Phone, got.Phone)
	assert.Equal(t, event.RequestID, got.RequestID)
}
