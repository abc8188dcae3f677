package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

// InvalidationChannel carries client ids whose credentials changed.
const InvalidationChannel = "taskifye:credentials:invalidate"

// InvalidationBus broadcasts credential changes between instances so each
// can drop its process-local API-key cache.
type InvalidationBus struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewInvalidationBus(client *redis.Client, log zerolog.Logger) *InvalidationBus {
	return &InvalidationBus{client: client, log: log}
}

// Publish announces that clientID's credentials changed.
func (b *InvalidationBus) Publish(ctx context.Context, clientID string) error {
	metrics.CredentialInvalidationsTotal.WithLabelValues("local").Inc()
	if err := b.client.Publish(ctx, InvalidationChannel, clientID).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Run subscribes to the channel and calls onInvalidate for every message until
// ctx is cancelled. Our own publications are delivered too; clearing twice is
// harmless.
func (b *InvalidationBus) Run(ctx context.Context, onInvalidate func(clientID string)) error {
	sub := b.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", InvalidationChannel, err)
	}
	b.log.Info().Str("channel", InvalidationChannel).Msg("credential invalidation subscriber started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == "" {
				continue
			}
			metrics.CredentialInvalidationsTotal.WithLabelValues("remote").Inc()
			onInvalidate(msg.Payload)
		}
	}
}
