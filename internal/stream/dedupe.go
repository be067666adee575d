package stream

import (
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// offsetDedupe remembers the highest offset published per topic/partition so
// redelivered messages (after a rebalance, before the commit landed) are not
// combined and published twice.
type offsetDedupe struct {
	mu  sync.Mutex
	lru *lru.Cache[string, int64]
}

func newOffsetDedupe(size int) *offsetDedupe {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, int64](size)
	return &offsetDedupe{lru: c}
}

func partitionKey(topic string, partition int32) string {
	return topic + "/" + strconv.Itoa(int(partition))
}

// seen reports whether off was already handled for the partition.
func (d *offsetDedupe) seen(topic string, partition int32, off int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.lru.Get(partitionKey(topic, partition))
	return ok && off <= last
}

func (d *offsetDedupe) record(topic string, partition int32, off int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := partitionKey(topic, partition)
	if last, ok := d.lru.Get(k); ok && off <= last {
		return
	}
	d.lru.Add(k, off)
}
