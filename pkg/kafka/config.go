package kafka

// Config holds Kafka connection parameters for producers.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string
}
