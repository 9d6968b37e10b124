package events

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// Sink receives price-change events emitted on publish and rollback so
// downstream consumers (ESLs, dashboards) can react to the new prices.
type Sink interface {
	Publish(topic string, msg []byte) error
	Close() error
}

// PriceEvent is one variant price change.
type PriceEvent struct {
	Action    string    `json:"action"` // "publish" or "rollback"
	Week      string    `json:"week"`
	VariantID string    `json:"variant_id"`
	Price     float64   `json:"price"`
	CompareAt *float64  `json:"compare_at,omitempty"`
	At        time.Time `json:"at"`
}

// NewSink returns a Kafka-backed sink when Kafka is enabled, otherwise a
// console sink.
func NewSink(cfg models.KafkaConfig) (Sink, error) {
	if cfg.Enabled {
		return NewKafkaSink(cfg.BrokerList)
	}
	return &ConsoleSink{}, nil
}

// Emit marshals and publishes the events one by one. A sink failure is
// returned to the caller; price pushes have already happened by then, so the
// caller reports it rather than unwinding.
func Emit(sink Sink, topic string, events []PriceEvent) error {
	for _, ev := range events {
		msg, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode price event: %w", err)
		}
		if err := sink.Publish(topic, msg); err != nil {
			return fmt.Errorf("failed to publish price event for %s: %w", ev.VariantID, err)
		}
	}
	return nil
}

type ConsoleSink struct{}

func (c *ConsoleSink) Publish(topic string, msg []byte) error {
	_, err := fmt.Fprintf(os.Stdout, "[%s] %s\n", topic, string(msg))
	return err
}

func (c *ConsoleSink) Close() error {
	return nil
}

type KafkaSink struct {
	producer sarama.SyncProducer
}

func NewKafkaSink(brokerList string) (*KafkaSink, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", brokers)
	return &KafkaSink{producer: producer}, nil
}

func (k *KafkaSink) Publish(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Printf("Failed to send message to topic %s: %v", topic, err)
		return err
	}
	return nil
}

func (k *KafkaSink) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}
