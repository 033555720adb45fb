package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/pkg/model"
)

const (
	// DefaultSubjectPrefix is used when the publisher is built with an empty prefix.
	DefaultSubjectPrefix = "evt.affiliate"

	// SubjectListingGenerated carries one event per completed listing run under the default prefix.
	SubjectListingGenerated = DefaultSubjectPrefix + listingGeneratedSuffix

	listingGeneratedSuffix = ".listing_generated.v1"
	eventListingGenerated  = "affiliate.listing_generated"
)

// jetStream is the subset of nats.JetStreamContext the publisher needs.
type jetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher wraps a NATS connection and provides helpers for publishing canonical events.
type Publisher struct {
	nc      *nats.Conn
	js      jetStream
	subject string
	service string
	logger  *zap.Logger
}

// New creates a Publisher backed by JetStream. subject is the prefix every
// event subject is built from.
func New(nc *nats.Conn, subject, service string, logger *zap.Logger) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if subject == "" {
		subject = DefaultSubjectPrefix
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		service: service,
		logger:  logger,
	}, nil
}

// PublishEnvelope serializes and publishes a canonical event envelope.
func (p *Publisher) PublishEnvelope(ctx context.Context, subject string, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("subject", subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}

	start := time.Now()
	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		return err
	}

	p.logger.Debug("publisher.publish_success",
		zap.String("subject", subject),
		zap.String("event_type", env.EventType),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// PublishListingGenerated emits the listing_generated event for a completed run.
// The run id doubles as the correlation id.
func (p *Publisher) PublishListingGenerated(ctx context.Context, run model.ListingRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal listing run: %w", err)
	}
	subject := p.ListingGeneratedSubject()
	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: run.RunID,
		Topic:         subject,
		EventType:     eventListingGenerated,
		Version:       "1.0.0",
		Source:        p.service,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}
	return p.PublishEnvelope(ctx, subject, env)
}

// ListingGeneratedSubject is the subject listing_generated events go to.
func (p *Publisher) ListingGeneratedSubject() string {
	return p.subject + listingGeneratedSuffix
}

// Close drains pending publishes and closes the connection.
func (p *Publisher) Close() error {
	if p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	return p.nc.Drain()
}
