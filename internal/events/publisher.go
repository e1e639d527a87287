// Package events publishes navigation state snapshots to Pub/Sub for
// downstream consumers: the turn-by-turn display, the voice-announcement
// trigger, and trip-completion observers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/guidance"
)

// DefaultTopicName is the topic guidance state is published to.
const DefaultTopicName = "fieldroute-guidance-state"

// PubSubConfig holds configuration for the Pub/Sub state publisher.
type PubSubConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// PubSubPublisher publishes guidance state snapshots to a Pub/Sub topic.
// Publishing is best-effort: failures are logged and never surface into the
// fix pipeline.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

var _ guidance.Publisher = (*PubSubPublisher)(nil)

// stateMessage is the JSON payload published per snapshot.
type stateMessage struct {
	TripID                   string  `json:"trip_id"`
	Event                    string  `json:"event"`
	StepIndex                int     `json:"step_index"`
	Instruction              string  `json:"instruction"`
	DistanceToManeuverMeters float64 `json:"distance_to_maneuver_m"`
	DistanceAlongRoute       bool    `json:"distance_along_route"`
	RemainingDistanceMeters  float64 `json:"remaining_distance_m"`
	RemainingSeconds         float64 `json:"remaining_seconds,omitempty"`
	HasETA                   bool    `json:"has_eta"`
	Lat                      float64 `json:"lat"`
	Lon                      float64 `json:"lon"`
	Completed                bool    `json:"completed"`
	UpdatedAt                string  `json:"updated_at"`
}

// NewPubSubPublisher creates a publisher for the given project and topic.
func NewPubSubPublisher(ctx context.Context, cfg PubSubConfig) (*PubSubPublisher, error) {
	topicName := cfg.TopicName
	if topicName == "" {
		topicName = DefaultTopicName
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(topicName),
		topicName: topicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishState implements guidance.Publisher. The publish itself batches
// asynchronously inside the Pub/Sub client; the result is checked on a
// separate goroutine so a slow broker never stalls fix processing.
func (p *PubSubPublisher) PublishState(ctx context.Context, tripID string, event guidance.Event, state guidance.State) {
	msg := stateMessage{
		TripID:                   tripID,
		Event:                    string(event),
		StepIndex:                state.StepIndex,
		Instruction:              state.Instruction,
		DistanceToManeuverMeters: state.DistanceToManeuverMeters,
		DistanceAlongRoute:       state.DistanceAlongRoute,
		RemainingDistanceMeters:  state.RemainingDistanceMeters,
		RemainingSeconds:         state.RemainingSeconds,
		HasETA:                   state.HasETA,
		Lat:                      state.Position.Lat,
		Lon:                      state.Position.Lon,
		Completed:                state.Completed,
		UpdatedAt:                state.UpdatedAt.Format(time.RFC3339Nano),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error().Err(err).Str("trip_id", tripID).Msg("failed to marshal state message")
		return
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"trip_id": tripID,
			"event":   string(event),
		},
	})

	go func() {
		if _, err := result.Get(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn().Err(err).
				Str("trip_id", tripID).
				Str("event", string(event)).
				Msg("failed to publish guidance state")
		}
	}()
}

// Close flushes pending publishes and closes the client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
