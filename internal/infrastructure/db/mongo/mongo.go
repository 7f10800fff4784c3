package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultConnectTimeout = 8 * time.Second
	defaultTimeout        = 10 * time.Second
	appName               = "site-api"
)

// Config captures the settings required to open the shared connection.
type Config struct {
	URI      string
	Database string
	// Timeout bounds the initial connect and ping only.
	Timeout time.Duration
}

// Connect opens a client, verifies it with a ping inside the configured
// timeout and selects the database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// clientOptions leaves server selection at the driver default. Timeout
// bounds the dial and ping only; later queries are bounded by their own
// contexts.
func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName)
}
