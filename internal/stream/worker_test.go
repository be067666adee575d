package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/geocombine/internal/service"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeProducer struct {
	mu   sync.Mutex
	sent []*sarama.ProducerMessage
	err  error
}

func (p *fakeProducer) SendMessage(m *sarama.ProducerMessage) (int32, int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, 0, p.err
	}
	p.sent = append(p.sent, m)
	return 0, int64(len(p.sent)), nil
}

func header(m *sarama.ProducerMessage, k string) string {
	for _, h := range m.Headers {
		if string(h.Key) == k {
			return string(h.Value)
		}
	}
	return ""
}

func value(t *testing.T, m *sarama.ProducerMessage) []byte {
	t.Helper()
	b, err := m.Value.Encode()
	if err != nil {
		t.Fatalf("encode value: %v", err)
	}
	return b
}

func newWorker(prod Producer) *Worker {
	cfg := Config{InTopic: "in", OutTopic: "out"}
	return NewWorker(cfg, quiet(), service.New(quiet(), nil, service.Options{}), prod)
}

const lines = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[102,-10],[130,4]]}},
{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[40,-20],[150,18]]}}]}`

func TestProcessOne_PublishesCombined(t *testing.T) {
	prod := &fakeProducer{}
	w := newWorker(prod)

	msg := &sarama.ConsumerMessage{Topic: "in", Key: []byte("job-1"), Value: []byte(lines)}
	if err := w.ProcessOne(context.Background(), msg); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if len(prod.sent) != 1 {
		t.Fatalf("sent=%d want 1", len(prod.sent))
	}
	out := prod.sent[0]
	if out.Topic != "out" {
		t.Fatalf("topic=%q want out", out.Topic)
	}
	if k, _ := out.Key.Encode(); string(k) != "job-1" {
		t.Fatalf("key=%q want job-1", k)
	}
	if header(out, headerStatus) != "ok" || header(out, headerRequestID) != "job-1" {
		t.Fatalf("headers=%v", out.Headers)
	}

	var fc struct {
		Features []struct {
			Geometry struct {
				Type        string        `json:"type"`
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(value(t, out), &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Geometry.Type != "MultiLineString" || len(fc.Features[0].Geometry.Coordinates) != 2 {
		t.Fatalf("unexpected output: %s", value(t, out))
	}
}

func TestProcessOne_RejectionIsPublishedAndHandled(t *testing.T) {
	prod := &fakeProducer{}
	w := newWorker(prod)

	msg := &sarama.ConsumerMessage{Topic: "in", Partition: 2, Offset: 7, Value: []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":null}]}`)}
	if err := w.ProcessOne(context.Background(), msg); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	out := prod.sent[0]
	if out.Key != nil {
		t.Fatalf("key=%v want nil", out.Key)
	}
	if header(out, headerStatus) != "missing_geometry" {
		t.Fatalf("status=%q", header(out, headerStatus))
	}
	if header(out, headerRequestID) != "in-2-7" {
		t.Fatalf("request id=%q", header(out, headerRequestID))
	}
	var rej rejection
	if err := json.Unmarshal(value(t, out), &rej); err != nil || rej.Kind != "missing_geometry" {
		t.Fatalf("rejection=%+v err=%v", rej, err)
	}
}

func TestProcessOne_PublishFailureIsReturned(t *testing.T) {
	w := newWorker(&fakeProducer{err: errors.New("broker down")})
	err := w.ProcessOne(context.Background(), &sarama.ConsumerMessage{Value: []byte(lines)})
	if err == nil {
		t.Fatal("expected publish error")
	}
}

type sess struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *sess) Claims() map[string][]int32 { return nil }
func (s *sess) MemberID() string           { return "" }
func (s *sess) GenerationID() int32        { return 0 }
func (s *sess) MarkMessage(m *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	s.marked = append(s.marked, m.Offset)
	s.mu.Unlock()
}
func (s *sess) ResetOffset(_ string, _ int32, _ int64, _ string) {}
func (s *sess) MarkOffset(_ string, _ int32, _ int64, _ string)  {}
func (s *sess) Context() context.Context                         { return s.ctx }
func (s *sess) Commit()                                          {}

type claim struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *claim) Topic() string                            { return "in" }
func (c *claim) Partition() int32                         { return 0 }
func (c *claim) InitialOffset() int64                     { return 0 }
func (c *claim) HighWaterMarkOffset() int64               { return 0 }
func (c *claim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func TestConsumeClaim_MarksOnlyProcessed(t *testing.T) {
	prod := &fakeProducer{}
	w := newWorker(prod)
	h := &groupHandler{process: w.ProcessOne}

	s := &sess{ctx: context.Background()}
	c := &claim{msgs: make(chan *sarama.ConsumerMessage, 3)}
	c.msgs <- &sarama.ConsumerMessage{Topic: "in", Offset: 1, Value: []byte(lines)}
	c.msgs <- &sarama.ConsumerMessage{Topic: "in", Offset: 2, Value: []byte(`{`)}
	close(c.msgs)

	if err := h.ConsumeClaim(s, c); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(s.marked) != 2 || s.marked[0] != 1 || s.marked[1] != 2 {
		t.Fatalf("marked=%v want [1 2]", s.marked)
	}

	prod.err = errors.New("broker down")
	c = &claim{msgs: make(chan *sarama.ConsumerMessage, 1)}
	c.msgs <- &sarama.ConsumerMessage{Topic: "in", Offset: 3, Value: []byte(lines)}
	close(c.msgs)
	if err := h.ConsumeClaim(s, c); err == nil {
		t.Fatal("expected error when publish fails")
	}
	if len(s.marked) != 2 {
		t.Fatalf("failed message must not be marked; marked=%v", s.marked)
	}
}

func TestConsumeClaim_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &groupHandler{process: func(context.Context, *sarama.ConsumerMessage) error { return nil }}
	c := &claim{msgs: make(chan *sarama.ConsumerMessage)}

	done := make(chan error, 1)
	go func() { done <- h.ConsumeClaim(&sess{ctx: ctx}, c) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ConsumeClaim did not return")
	}
}
