package utils

import (
	"context"
	"fmt"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects to MongoDB with the configured pool settings and
// verifies the connection with a ping.
func NewMongoClient(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("MongoDB URI is not set")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetTimeout(cfg.Timeout).
		SetPoolMonitor(poolMonitor())

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// poolMonitor feeds connection pool events into the mongo_pool_connections gauge.
func poolMonitor() *event.PoolMonitor {
	open := MongoPoolConnections.WithLabelValues("open")
	checkedOut := MongoPoolConnections.WithLabelValues("checked_out")
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				open.Inc()
			case event.ConnectionClosed:
				open.Dec()
			case event.GetSucceeded:
				checkedOut.Inc()
			case event.ConnectionReturned:
				checkedOut.Dec()
			}
		},
	}
}
