package stream

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/geocombine/internal/core/observability"
)

type messageProcessor func(context.Context, *sarama.ConsumerMessage) error

type groupHandler struct {
	process messageProcessor
	dedupe  *offsetDedupe
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks each message only after it has been processed, so a
// failed message is redelivered after the next rebalance.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("claim context done: %w", ctx.Err())
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if h.dedupe != nil && h.dedupe.seen(msg.Topic, msg.Partition, msg.Offset) {
				observability.IncKafkaMessage("duplicate")
				sess.MarkMessage(msg, "")
				continue
			}
			if err := h.process(ctx, msg); err != nil {
				return fmt.Errorf("process failed (topic=%s, part=%d, off=%d): %w",
					msg.Topic, msg.Partition, msg.Offset, err)
			}
			if h.dedupe != nil {
				h.dedupe.record(msg.Topic, msg.Partition, msg.Offset)
			}
			sess.MarkMessage(msg, "")
		}
	}
}
