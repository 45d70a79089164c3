package kafka

import (
	"testing"
)

func TestNewProducer(t *testing.T) {
	cfg := Config{
		Brokers: []string{"localhost:9092", "localhost:9093"},
	}

	p := NewProducer(cfg)
	if p == nil {
		t.Fatal("expected non-nil producer")
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.brokers[0] != "localhost:9092" {
		t.Errorf("expected broker localhost:9092, got %s", p.brokers[0])
	}
	if p.writers == nil {
		t.Fatal("expected writers map to be initialized")
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
}

func TestProducerCloseEmpty(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"kafka:9092"}})
	if err := p.Close(); err != nil {
		t.Fatalf("closing producer with no writers should not error, got %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected writers map to be reset, got %d entries", len(p.writers))
	}
}
