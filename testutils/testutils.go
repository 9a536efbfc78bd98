// Package testutils holds helpers shared by package tests that need live
// MongoDB or Redis instances. Those tests skip unless TEST_MONGO_URI or
// TEST_REDIS_URL is set.
package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TestJWTSecret = "test-secret-key-for-workshop-tokens"

// AuthConfig returns token settings suitable for tests.
func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecretKey:      TestJWTSecret,
		Issuer:            "sprintworkshop-test",
		AccessTokenTTL:    time.Hour,
		RefreshTokenTTL:   24 * time.Hour,
		SessionDuration:   24 * time.Hour,
		MaxActiveSessions: 5,
		GuestModeEnabled:  true,
		GuestDisplayName:  "Workshop Guest",
	}
}

// MongoDatabase connects to TEST_MONGO_URI and returns a uniquely named
// database that is dropped when the test ends.
func MongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database("sprintworkshop_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// DatabaseConfig names the collections used by repository tests.
func DatabaseConfig(db *mongo.Database) config.DatabaseConfig {
	return config.DatabaseConfig{
		DatabaseName:       db.Name(),
		UsersCollection:    "users",
		ProfilesCollection: "profiles",
		SessionsCollection: "sessions",
		Timeout:            10 * time.Second,
	}
}

// RedisClient connects to TEST_REDIS_URL and flushes the selected DB before
// and after the test.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("Failed to parse TEST_REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test Redis DB: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
