package repositories

import (
	"context"

	"github.com/tubestream/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindBySub(ctx context.Context, sub string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
	AddLikedVideo(ctx context.Context, userID, videoID string) error
	RemoveLikedVideo(ctx context.Context, userID, videoID string) error
	AddDislikedVideo(ctx context.Context, userID, videoID string) error
	RemoveDislikedVideo(ctx context.Context, userID, videoID string) error
	AppendWatchHistory(ctx context.Context, userID, videoID string) error
}
