package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkpulse/internal/app/model"
	metrics "github.com/sifan077/linkpulse/internal/infra/prometheus"
)

// ClickPublisher publishes click events to NATS JetStream
type ClickPublisher struct {
	js nats.JetStreamContext
}

// NewClickPublisher creates a new click event publisher
func NewClickPublisher(js nats.JetStreamContext) *ClickPublisher {
	return &ClickPublisher{js: js}
}

// EnsureStream creates the click stream when it does not exist yet.
func (p *ClickPublisher) EnsureStream() error {
	_, err := p.js.StreamInfo(model.ClickStreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:     model.ClickStreamName,
		Subjects: []string{model.ClickStreamSubject},
		MaxBytes: model.ClickStreamMaxBytes,
		MaxAge:   model.ClickStreamMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Publish queues the event without waiting for the server acknowledgement.
func (p *ClickPublisher) Publish(event model.ClickEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		metrics.ClickEventsPublished.WithLabelValues("error").Inc()
		return err
	}

	if _, err := p.js.PublishAsync(model.ClickStreamSubject, data); err != nil {
		metrics.ClickEventsPublished.WithLabelValues("error").Inc()
		return err
	}
	metrics.ClickEventsPublished.WithLabelValues("queued").Inc()
	return nil
}
