package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepo is the progress store. Writes replace the whole progress
// state and are guarded by the document version; there is no increment
// style update.
type ProfileRepo struct {
	MongoCollection *mongo.Collection
}

func NewProfileRepo(db *mongo.Database, cfg config.DatabaseConfig) *ProfileRepo {
	return &ProfileRepo{MongoCollection: db.Collection(cfg.ProfilesCollection)}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var profile model.UserProfile
	if err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		return nil, storeError("get profile", "profiles", err, ErrProfileNotFound)
	}
	if profile.Progress == nil {
		profile.Progress = map[int]model.DayProgress{}
	}
	return &profile, nil
}

// CreateProfile inserts profile at version 1.
func (r *ProfileRepo) CreateProfile(ctx context.Context, profile *model.UserProfile) error {
	const op = "create profile"
	timer := utils.TrackDBOperation("insert", "profiles")
	defer timer.ObserveDuration()

	if profile == nil || profile.UserID == "" {
		return apperr.Validation(op, errors.New("profile user id required"))
	}

	now := time.Now()
	profile.Version = 1
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict(op, errors.New("profile already exists"))
		}
		return storeError(op, "profiles", err, nil)
	}
	return nil
}

// WriteProfile stores the absolute progress state of profile if the stored
// version still equals expectedVersion. On success profile.Version becomes
// expectedVersion+1. A version mismatch returns a Conflict error wrapping
// ErrWriteConflict.
func (r *ProfileRepo) WriteProfile(ctx context.Context, profile *model.UserProfile, expectedVersion int64) error {
	const op = "write profile"
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	if profile == nil {
		return apperr.Validation(op, errors.New("profile required"))
	}

	filter := bson.M{"user_id": profile.UserID, "version": expectedVersion}
	if expectedVersion == 0 {
		// Documents written before versioning carry no version field.
		filter = bson.M{"user_id": profile.UserID, "$or": bson.A{
			bson.M{"version": 0},
			bson.M{"version": bson.M{"$exists": false}},
		}}
	}

	now := time.Now()
	result, err := r.MongoCollection.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{
			"points":          profile.Points,
			"tasks_completed": profile.TasksCompleted,
			"progress":        profile.Progress,
			"version":         expectedVersion + 1,
			"updated_at":      now,
		}},
	)
	if err != nil {
		return storeError(op, "profiles", err, nil)
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "profiles_write_conflict")
		return apperr.Conflict(op, ErrWriteConflict)
	}

	profile.Version = expectedVersion + 1
	profile.UpdatedAt = now
	return nil
}

// QueryTopProfiles returns non-guest profiles ordered by points, then tasks
// completed, then display name. limit <= 0 returns every profile.
func (r *ProfileRepo) QueryTopProfiles(ctx context.Context, limit int) ([]*model.UserProfile, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{
		{Key: "points", Value: -1},
		{Key: "tasks_completed", Value: -1},
		{Key: "display_name", Value: 1},
		{Key: "user_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"is_guest": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, storeError("query top profiles", "profiles", err, nil)
	}
	defer cursor.Close(ctx)

	profiles := []*model.UserProfile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, storeError("query top profiles", "profiles", err, nil)
	}
	return profiles, nil
}

func (r *ProfileRepo) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	const op = "update profile display name"
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"display_name": displayName, "updated_at": time.Now()}},
	)
	if err != nil {
		return storeError(op, "profiles", err, nil)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound(op, ErrProfileNotFound)
	}
	return nil
}
