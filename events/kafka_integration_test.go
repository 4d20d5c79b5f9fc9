//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	"loan-eligibility/domain"
)

func TestKafkaPublisher_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := kafka.Run(ctx, "confluentinc/confluent-local:7.6.1", kafka.WithClusterID("loan-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	const topic = "loan-events-test"
	conn, err := kafkago.DialContext(ctx, "tcp", brokers[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
	_ = conn.Close()

	logger, _ := test.NewNullLogger()
	publisher := NewKafkaPublisher(brokers, topic, logger)
	t.Cleanup(func() { _ = publisher.Close() })

	evt := NewLoanApproved(domain.Loan{ID: "loan-1", DecisionID: "dec-1", AccountID: "acc-1", DecisionAt: time.Now().UTC()})
	require.NoError(t, publisher.Publish(ctx, evt))

	reader := kafkago.NewReader(kafkago.ReaderConfig{Brokers: brokers, Topic: topic, Partition: 0})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", string(msg.Key))
	assert.Contains(t, string(msg.Value), `"eventType":"loan.approved"`)
}
