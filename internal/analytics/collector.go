package analytics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/kafka"
)

// Publisher sends one event downstream. *kafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Collector buffers events and hands them to a Publisher and an Aggregator
// from a single goroutine. Either may be nil.
type Collector struct {
	publisher  Publisher
	aggregator *Aggregator
	eventCh    chan any
	logger     *slog.Logger
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewCollector(publisher Publisher, aggregator *Aggregator, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		publisher:  publisher,
		aggregator: aggregator,
		eventCh:    make(chan any, bufferSize),
		logger:     slog.Default().With("component", "analytics-collector"),
		done:       make(chan struct{}),
	}
}

func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.deliver(ctx, event)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking. It is dropped when the buffer is
// full or the collector is closed.
func (c *Collector) Track(event any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Debug("analytics event dropped (collector closed)")
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for the buffered ones to be
// delivered. Later calls to Track or Close do nothing.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.eventCh)
	c.mu.Unlock()
	<-c.done
}

func (c *Collector) deliver(ctx context.Context, event any) {
	if c.aggregator != nil {
		if se, ok := event.(SearchEvent); ok {
			c.aggregator.Record(se)
		}
	}
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, kafka.Event{
		Key:   eventKey(event),
		Value: event,
	}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
	}
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.deliver(context.Background(), event)
		default:
			return
		}
	}
}

// eventKey partitions search events by keyword pair.
func eventKey(event any) string {
	switch e := event.(type) {
	case SearchEvent:
		return e.Pair()
	case IndexEvent:
		return string(e.Type)
	default:
		return "analytics"
	}
}
