package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrEmailTaken = errors.New("an account with this email already exists")

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func NewUserRepo(db *mongo.Database, cfg config.DatabaseConfig) *UserRepo {
	return &UserRepo{MongoCollection: db.Collection(cfg.UsersCollection)}
}

// AddUser inserts a new identity. Emails are stored lower-cased; a duplicate
// email fails with an AccountExists error.
func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	const op = "add user"
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user == nil || user.UserID == "" {
		utils.TrackError("database", "invalid_user_data")
		return apperr.Validation(op, errors.New("user id required"))
	}
	if !user.IsGuest && (user.Email == "" || user.Password == "") {
		utils.TrackError("database", "invalid_user_data")
		return apperr.Validation(op, errors.New("email and password required"))
	}
	user.Email = normalizeEmail(user.Email)

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_email")
			return apperr.New(apperr.KindAccountExists, op, ErrEmailTaken)
		}
		return storeError(op, "users", err, nil)
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"email": normalizeEmail(email), "is_guest": false}).Decode(&user)
	if err != nil {
		return nil, storeError("find user by email", "users", err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	if err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user); err != nil {
		return nil, storeError("find user", "users", err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepo) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	const op = "update user display name"
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"display_name": displayName, "updated_at": time.Now()}},
	)
	if err != nil {
		return storeError(op, "users", err, nil)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound(op, ErrUserNotFound)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
