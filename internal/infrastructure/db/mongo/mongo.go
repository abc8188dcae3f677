// Package mongo holds the document-store adapters. Only the SMS log lives here.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// defaultTimeout bounds connects and every repository call.
const defaultTimeout = 10 * time.Second

// Config is the SMS log database location.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration // connect and server selection; 10s when zero
}

// Connect opens a client, checks the primary is reachable and selects
// cfg.Database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	t := cfg.Timeout
	if t <= 0 {
		t = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(t).
		SetServerSelectionTimeout(t)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	dialCtx, cancel := context.WithTimeout(ctx, t)
	defer cancel()

	mc, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := Ping(dialCtx, mc); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, nil, err
	}
	return mc, mc.Database(cfg.Database), nil
}

// Ping asks the primary for a round trip.
func Ping(ctx context.Context, mc *mongo.Client) error {
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close disconnects within grace.
func Close(mc *mongo.Client, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return mc.Disconnect(ctx)
}
