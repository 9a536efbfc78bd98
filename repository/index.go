package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(ctx context.Context, db *mongo.Database, cfg config.DatabaseConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_unique").
				SetUnique(true),
		},
		// Guests have no email, so uniqueness only covers registered accounts.
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_guest": false}),
		},
	}

	profileIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_unique").
				SetUnique(true),
		},
		// Leaderboard order
		{
			Keys: bson.D{
				{Key: "points", Value: -1},
				{Key: "tasks_completed", Value: -1},
				{Key: "display_name", Value: 1},
			},
			Options: options.Index().
				SetName("leaderboard_order"),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("session_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_sessions"),
		},
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("session_expiry_ttl").
				SetExpireAfterSeconds(0),
		},
	}

	groups := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{cfg.UsersCollection, userIndexes},
		{cfg.ProfilesCollection, profileIndexes},
		{cfg.SessionsCollection, sessionIndexes},
	}
	for _, g := range groups {
		if _, err := db.Collection(g.collection).Indexes().CreateMany(ctx, g.models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", g.collection, err)
		}
	}
	return nil
}
