package repository

import (
	"errors"
	"fmt"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrWriteConflict   = errors.New("profile was modified concurrently")
)

// storeError tags a driver error. Missing documents become NotFound with
// notFound as the cause; everything else is Unavailable.
func storeError(op, collection string, err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		utils.TrackError("database", collection+"_not_found")
		return apperr.NotFound(op, notFound)
	}
	utils.TrackError("database", collection+"_"+string(apperr.KindUnavailable))
	return apperr.Unavailable(op, fmt.Errorf("%s: %w", collection, err))
}
