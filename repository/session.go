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

// SessionCache is the read-through cache in front of the sessions
// collection. services.SessionCache satisfies it.
type SessionCache interface {
	SetSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type SessionRepo struct {
	MongoCollection *mongo.Collection
	cache           SessionCache
	log             *utils.Logger
}

// NewSessionRepo builds the repo. cache may be nil.
func NewSessionRepo(db *mongo.Database, cfg config.DatabaseConfig, cache SessionCache, log *utils.Logger) *SessionRepo {
	return &SessionRepo{
		MongoCollection: db.Collection(cfg.SessionsCollection),
		cache:           cache,
		log:             log,
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	const op = "create session"
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil || session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return apperr.Validation(op, errors.New("invalid session data: missing required fields"))
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		return storeError(op, "sessions", err, nil)
	}
	r.cacheSet(ctx, session)
	return nil
}

// GetSession returns the session or a NotFound error.
func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if r.cache != nil {
		session, err := r.cache.GetSession(ctx, sessionID)
		if err != nil {
			r.log.Warn("session cache read failed", "session_id", sessionID, "error", err)
		}
		if session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	var session model.Session
	if err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session); err != nil {
		return nil, storeError("get session", "sessions", err, ErrSessionNotFound)
	}
	if session.IsActive {
		r.cacheSet(ctx, &session)
	}
	return &session, nil
}

// Touch records activity on an active session.
func (r *SessionRepo) Touch(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "is_active": true},
		bson.M{"$set": bson.M{"last_activity_at": time.Now()}},
	)
	if err != nil {
		return storeError("touch session", "sessions", err, nil)
	}
	return nil
}

func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	const op = "end session"
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false, "last_activity_at": time.Now()}},
	)
	if err != nil {
		return storeError(op, "sessions", err, nil)
	}
	r.cacheDelete(ctx, sessionID)
	if result.MatchedCount == 0 {
		return apperr.NotFound(op, ErrSessionNotFound)
	}
	return nil
}

// GetUserActiveSessions lists unexpired active sessions, most recent first.
func (r *SessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"last_activity_at": -1})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}, opts)
	if err != nil {
		return nil, storeError("list active sessions", "sessions", err, nil)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, storeError("list active sessions", "sessions", err, nil)
	}
	return sessions, nil
}

// EndLeastActiveSession ends the active session with the oldest activity.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	sessions, err := r.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	// Sorted most recent first.
	return r.EndSession(ctx, sessions[len(sessions)-1].SessionID)
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return 0, storeError("count active sessions", "sessions", err, nil)
	}
	return int(count), nil
}

func (r *SessionRepo) cacheSet(ctx context.Context, session *model.Session) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetSession(ctx, session); err != nil {
		utils.TrackError("cache", "session_cache_set_failed")
		r.log.Warn("failed to cache session", "session_id", session.SessionID, "error", err)
	}
}

func (r *SessionRepo) cacheDelete(ctx context.Context, sessionID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeleteSession(ctx, sessionID); err != nil {
		utils.TrackError("cache", "session_cache_delete_failed")
		r.log.Warn("failed to delete session from cache", "session_id", sessionID, "error", err)
	}
}
