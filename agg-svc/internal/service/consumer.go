package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"gourmet-ordering/agg-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

const DefaultRetryBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Log    logrus.FieldLogger
	Now    func() time.Time
	// RetryBackoff is the pause after a failed read.
	RetryBackoff time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, log logrus.FieldLogger) *Consumer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		Log:    log,
		Now:    time.Now,

		RetryBackoff: DefaultRetryBackoff,
	}
}

// Start reads order events until ctx is done or the reader is closed.
// Unreadable messages are logged and skipped; failed reads are retried after
// RetryBackoff.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger().Info("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			c.logger().WithError(err).Error("Error reading message")
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.logger().WithError(err).WithField("offset", message.Offset).Warn("Error unmarshaling message")
			continue
		}

		c.ProcessOrder(ctx, event)
	}
}

// ProcessOrder counts the items of a placed order. Other event types are
// ignored.
func (c *Consumer) ProcessOrder(ctx context.Context, event domain.OrderEvent) {
	if event.Type != domain.OrderPlacedEvent {
		return
	}
	log := c.logger().WithFields(logrus.Fields{"order_ref": event.OrderRef, "lines": len(event.Lines)})

	at := event.Timestamp
	if at.IsZero() {
		at = c.now()
	}
	if err := c.Store.RecordOrder(ctx, event.Lines, at); err != nil {
		log.WithError(err).Error("Error updating popularity")
		return
	}
	log.Info("Successfully processed order")
}

func (c *Consumer) wait(ctx context.Context) error {
	if c.RetryBackoff <= 0 {
		return nil
	}
	timer := time.NewTimer(c.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Consumer) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func (c *Consumer) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
