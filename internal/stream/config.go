package stream

import (
	"time"

	"github.com/mohammed-shakir/geocombine/internal/core/config"
)

type Config struct {
	Brokers             []string
	InTopic             string
	OutTopic            string
	GroupID             string
	SessionTimeout      time.Duration
	Heartbeat           time.Duration
	RebalanceTimeout    time.Duration
	InitialOffsetOldest bool
	RetryBackoff        time.Duration
	DedupeSize          int
}

func FromConfig(k config.KafkaCfg) Config {
	return Config{
		Brokers:             k.Brokers,
		InTopic:             k.InTopic,
		OutTopic:            k.OutTopic,
		GroupID:             k.GroupID,
		SessionTimeout:      30 * time.Second,
		Heartbeat:           3 * time.Second,
		RebalanceTimeout:    30 * time.Second,
		InitialOffsetOldest: true,
		RetryBackoff:        2 * time.Second,
		DedupeSize:          4096,
	}
}
