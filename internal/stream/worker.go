// Package stream runs the combiner as a Kafka consumer-group worker: each
// message on the input topic is a FeatureCollection, and the combined
// collection (or a rejection envelope) is written to the output topic.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/geocombine/internal/core/observability"
	mylog "github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/internal/service"
	"github.com/mohammed-shakir/geocombine/pkg/combine"
)

const (
	headerStatus    = "geocombine-status"
	headerRequestID = "geocombine-request-id"
)

type Combiner interface {
	Combine(ctx context.Context, body []byte) (service.Result, error)
}

// Producer is the part of sarama.SyncProducer the worker uses.
type Producer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

type Worker struct {
	cfg    Config
	log    *slog.Logger
	svc    Combiner
	prod   Producer
	dedupe *offsetDedupe
}

type rejection struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func NewWorker(cfg Config, log *slog.Logger, svc Combiner, prod Producer) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{cfg: cfg, log: log, svc: svc, prod: prod, dedupe: newOffsetDedupe(cfg.DedupeSize)}
}

// NewSaramaConfig returns the client config shared by the consumer group and
// the result producer.
func NewSaramaConfig(cfg Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_5_0_0
	sc.ClientID = "geocombine"
	sc.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	sc.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	sc.Consumer.Group.Rebalance.Timeout = cfg.RebalanceTimeout
	if cfg.InitialOffsetOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	return sc
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, group sarama.ConsumerGroup) error {
	if w.svc == nil || w.prod == nil {
		return errors.New("stream: missing dependencies (service/producer)")
	}
	handler := &groupHandler{process: w.ProcessOne, dedupe: w.dedupe}

	w.log.Info("kafka combine worker starting",
		"brokers", w.cfg.Brokers, "in", w.cfg.InTopic, "out", w.cfg.OutTopic, "group", w.cfg.GroupID)

	for {
		if err := group.Consume(ctx, []string{w.cfg.InTopic}, handler); err != nil && ctx.Err() == nil {
			w.log.Error("consumer error", "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.RetryBackoff):
			}
		}
		if ctx.Err() != nil {
			w.log.Info("kafka combine worker shutting down")
			return nil
		}
	}
}

// ProcessOne combines one message and publishes the outcome. Rejected input
// is answered with a rejection envelope and counts as handled; only
// internal or publish failures are returned.
func (w *Worker) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	reqID := string(msg.Key)
	if reqID == "" {
		reqID = msg.Topic + "-" + strconv.Itoa(int(msg.Partition)) + "-" + strconv.FormatInt(msg.Offset, 10)
	}
	ctx = mylog.WithRequestID(ctx, reqID)
	ctx = mylog.WithSource(ctx, "kafka")

	status := "ok"
	res, err := w.svc.Combine(ctx, msg.Value)
	body := res.Body
	if err != nil {
		kind := combine.KindName(err)
		if kind == "internal" {
			observability.IncKafkaMessage("error")
			return fmt.Errorf("combine: %w", err)
		}
		status = kind
		body, err = json.Marshal(rejection{Error: err.Error(), Kind: kind})
		if err != nil {
			return fmt.Errorf("marshal rejection: %w", err)
		}
	}

	out := &sarama.ProducerMessage{
		Topic: w.cfg.OutTopic,
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerStatus), Value: []byte(status)},
			{Key: []byte(headerRequestID), Value: []byte(reqID)},
		},
	}
	if len(msg.Key) > 0 {
		out.Key = sarama.ByteEncoder(msg.Key)
	}

	if _, _, err := w.prod.SendMessage(out); err != nil {
		observability.IncKafkaMessage("error")
		return fmt.Errorf("publish result: %w", err)
	}

	if status == "ok" {
		observability.IncKafkaMessage("ok")
	} else {
		observability.IncKafkaMessage("rejected")
		w.log.InfoContext(ctx, "rejected kafka message", "kind", status,
			"partition", msg.Partition, "offset", msg.Offset)
	}
	return nil
}
