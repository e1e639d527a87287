package worker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// DefaultSubscriptionName is the subscription the monitor consumes.
const DefaultSubscriptionName = "fieldroute-guidance-state-monitor"

// PubSubHandler feeds guidance state messages from Pub/Sub into the monitor.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	monitor          *Monitor
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Monitor          *Monitor
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	subscriptionName := cfg.SubscriptionName
	if subscriptionName == "" {
		subscriptionName = DefaultSubscriptionName
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(subscriptionName)

	// The feed is high-frequency but each message is cheap to process.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 100
	subscriber.ReceiveSettings.MaxExtension = time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: subscriptionName,
		monitor:          cfg.Monitor,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages. Blocks until ctx is cancelled.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting guidance feed consumer")

	return h.subscriber.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
		h.handleMessage(msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(msg *pubsub.Message) {
	if err := h.monitor.Handle(msg.Data); err != nil {
		// Malformed payloads won't improve on redelivery
		h.logger.Warn().
			Err(err).
			Str("message_id", msg.ID).
			Str("trip_id", msg.Attributes["trip_id"]).
			Msg("dropping unprocessable state message")
		msg.Ack()
		return
	}

	msg.Ack()
}
