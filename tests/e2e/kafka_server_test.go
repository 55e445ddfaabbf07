package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/DIMO-Network/cloudevent"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaylog"
	"github.com/IBM/sarama"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type mockKafkaServer struct {
	container *kafka.KafkaContainer
	brokers   []string
}

func setupMockKafkaServer(t *testing.T) *mockKafkaServer {
	t.Helper()

	ctx := context.Background()

	// Start Kafka container using Testcontainers
	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		t.Fatalf("Failed to start Kafka container: %v", err)
	}

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("Failed to get Kafka brokers: %v", err)
	}

	return &mockKafkaServer{
		container: kafkaContainer,
		brokers:   brokers,
	}
}

// RelayRecordsFor reads the relay log topic from the beginning and returns
// the records published for userID, waiting until want records arrived or
// the timeout passed.
func (m *mockKafkaServer) RelayRecordsFor(topic, userID string, want int, timeout time.Duration) ([]cloudevent.CloudEvent[relaylog.RelayRecord], error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_1_0
	consumer, err := sarama.NewConsumer(m.brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer consumer.Close() //nolint:errcheck

	partitions, err := consumer.Partitions(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions of %s: %w", topic, err)
	}

	messages := make(chan *sarama.ConsumerMessage)
	done := make(chan struct{})
	defer close(done)
	for _, partition := range partitions {
		pc, err := consumer.ConsumePartition(topic, partition, sarama.OffsetOldest)
		if err != nil {
			return nil, fmt.Errorf("failed to consume partition %d: %w", partition, err)
		}
		defer pc.Close() //nolint:errcheck
		go func() {
			for msg := range pc.Messages() {
				select {
				case messages <- msg:
				case <-done:
					return
				}
			}
		}()
	}

	var records []cloudevent.CloudEvent[relaylog.RelayRecord]
	deadline := time.After(timeout)
	for len(records) < want {
		select {
		case msg := <-messages:
			var event cloudevent.CloudEvent[relaylog.RelayRecord]
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return nil, fmt.Errorf("failed to decode relay record: %w", err)
			}
			if event.Subject == userID {
				records = append(records, event)
			}
		case <-deadline:
			return records, nil
		}
	}
	return records, nil
}

// GetBrokerAddress returns the first broker address as a string (for backward compatibility)
func (m *mockKafkaServer) GetBrokerAddress(t *testing.T) string {
	if len(m.brokers) > 0 {
		return m.brokers[0]
	}
	t.Fatalf("No brokers found")
	return ""
}

// Close closes the mock Kafka server and cleans up resources
func (m *mockKafkaServer) Close() error {
	if m.container != nil {
		return m.container.Terminate(context.Background())
	}
	return nil
}
