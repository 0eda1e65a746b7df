package repositories

import (
	"context"

	"github.com/tubestream/backend/internal/models"
)

// VideoRepository defines the data access contract for videos.
type VideoRepository interface {
	Insert(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	// AdjustReactions atomically applies the given deltas to the like and
	// dislike counters and returns the updated document.
	AdjustReactions(ctx context.Context, id string, likeDelta, dislikeDelta int) (models.Video, error)
	IncrementViewCount(ctx context.Context, id string) error
}
