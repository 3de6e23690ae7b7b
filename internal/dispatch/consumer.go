package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/groblegark/sessionlog/internal/events"
)

// Consumer drains queue batches from the message bus and feeds them to the
// dispatcher. Delivery is at-least-once: a batch whose records fail against
// the store is logged and left to the broker's redelivery; validation
// failures are terminal and only logged.
type Consumer struct {
	subscriber events.Subscriber
	dispatcher *Dispatcher
	subject    string
	logger     *slog.Logger

	cancel func()
	wg     sync.WaitGroup
}

// NewConsumer returns a Consumer reading batches from the given subject.
func NewConsumer(sub events.Subscriber, d *Dispatcher, subject string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if subject == "" {
		subject = events.IngestSubject
	}
	return &Consumer{
		subscriber: sub,
		dispatcher: d,
		subject:    subject,
		logger:     logger,
	}
}

// Start subscribes and begins processing batches in a background goroutine.
func (c *Consumer) Start() error {
	ch, cancel, err := c.subscriber.Subscribe(c.subject)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.subject, err)
	}
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ch)
	}()
	return nil
}

// Stop unsubscribes and waits for the in-flight batch (if any) to finish.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *Consumer) run(ch <-chan []byte) {
	for payload := range ch {
		var batch QueueBatch
		if err := json.Unmarshal(payload, &batch); err != nil {
			c.logger.Warn("discarding undecodable batch payload", "err", err)
			continue
		}

		result := c.dispatcher.ProcessBatch(context.Background(), batch)
		c.logger.Info("queue batch processed",
			"subject", c.subject,
			"records", result.ProcessedRecords,
			"failed", result.Failed(),
		)
	}
}
