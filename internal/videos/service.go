package videos

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tubestream/backend/internal/logging"
	"github.com/tubestream/backend/internal/models"
	"github.com/tubestream/backend/internal/repositories"
)

// AssetStorage persists uploaded files and deletes them when a video is removed.
type AssetStorage interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// Service implements the video metadata and engagement workflows.
type Service struct {
	videos  repositories.VideoRepository
	users   repositories.UserRepository
	storage AssetStorage
}

// NewService wires the video service with its collaborators.
func NewService(videos repositories.VideoRepository, users repositories.UserRepository, storage AssetStorage) *Service {
	return &Service{videos: videos, users: users, storage: storage}
}

// Upload stores the file and creates the video record with zeroed counters.
// Empty uploads are rejected before the storage collaborator is called.
func (s *Service) Upload(ctx context.Context, upload FileUpload, ownerSub string) (UploadResult, error) {
	ctx, span := logging.StartSpan(ctx, "videos.upload")
	defer span.End()

	logger := logging.FromContext(ctx)

	if upload.Size == 0 || upload.Content == nil {
		logger.Warn("rejecting empty video upload", "filename", upload.Filename)
		return UploadResult{}, ErrEmptyUpload
	}

	url, err := s.storage.Save(ctx, upload.Filename, upload.ContentType, upload.Content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store video file: %w", err)
	}

	video := models.Video{
		UserID:   ownerSub,
		VideoURL: url,
		Status:   models.StatusPublic,
	}

	created, err := s.videos.Insert(ctx, video)
	if err != nil {
		return UploadResult{}, fmt.Errorf("persist video record: %w", err)
	}

	logger.Info("video uploaded", "videoId", created.ID)
	return UploadResult{VideoID: created.ID, VideoURL: created.VideoURL}, nil
}

// Edit overwrites the mutable metadata of an existing video and returns the
// persisted state.
func (s *Service) Edit(ctx context.Context, dto VideoDTO) (VideoDTO, error) {
	logger := logging.FromContext(ctx)

	if dto.Status != "" && !dto.Status.Valid() {
		return VideoDTO{}, fmt.Errorf("%w: %q", ErrInvalidStatus, dto.Status)
	}

	existing, err := s.findVideo(ctx, dto.ID)
	if err != nil {
		return VideoDTO{}, err
	}

	existing.Title = dto.Title
	existing.Description = dto.Description
	existing.Tags = dto.Tags
	existing.Status = dto.Status
	existing.ThumbnailURL = dto.ThumbnailURL

	if err := s.videos.Update(ctx, existing); err != nil {
		return VideoDTO{}, fmt.Errorf("persist video metadata: %w", err)
	}

	logger.Info("video metadata updated", "videoId", dto.ID)
	return dtoFromVideo(existing), nil
}

// UploadThumbnail stores the thumbnail and attaches its URL to the video.
func (s *Service) UploadThumbnail(ctx context.Context, upload FileUpload, videoID string) (string, error) {
	logger := logging.FromContext(ctx)

	existing, err := s.findVideo(ctx, videoID)
	if err != nil {
		return "", err
	}

	if upload.Size == 0 || upload.Content == nil {
		logger.Warn("rejecting empty thumbnail upload", "videoId", videoID)
		return "", ErrEmptyUpload
	}

	url, err := s.storage.Save(ctx, upload.Filename, upload.ContentType, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store thumbnail file: %w", err)
	}

	existing.ThumbnailURL = url
	if err := s.videos.Update(ctx, existing); err != nil {
		return "", fmt.Errorf("persist thumbnail url: %w", err)
	}

	logger.Info("thumbnail uploaded", "videoId", videoID)
	return url, nil
}

// Delete removes the stored video file, then the thumbnail, then the record.
// A storage failure aborts the remaining steps so the record keeps pointing
// at whatever assets still exist.
func (s *Service) Delete(ctx context.Context, videoID string) error {
	ctx, span := logging.StartSpan(ctx, "videos.delete")
	defer span.End()

	existing, err := s.findVideo(ctx, videoID)
	if err != nil {
		return err
	}

	if existing.VideoURL != "" {
		if err := s.storage.Delete(ctx, existing.VideoURL); err != nil {
			return fmt.Errorf("delete video file: %w", err)
		}
	}
	if existing.ThumbnailURL != "" {
		if err := s.storage.Delete(ctx, existing.ThumbnailURL); err != nil {
			return fmt.Errorf("delete thumbnail file: %w", err)
		}
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("delete video record: %w", err)
	}

	logging.FromContext(ctx).Info("video deleted", "videoId", videoID)
	return nil
}

// Details returns the video's metadata, bumping its view counter and
// recording the view in the caller's watch history when they are registered.
func (s *Service) Details(ctx context.Context, videoID, viewerSub string) (VideoDTO, error) {
	logger := logging.FromContext(ctx)

	existing, err := s.findVideo(ctx, videoID)
	if err != nil {
		return VideoDTO{}, err
	}

	if err := s.videos.IncrementViewCount(ctx, videoID); err != nil {
		return VideoDTO{}, fmt.Errorf("increment view count: %w", err)
	}
	existing.ViewCount++

	if viewerSub != "" {
		viewer, err := s.users.FindBySub(ctx, viewerSub)
		switch {
		case err == nil:
			if err := s.users.AppendWatchHistory(ctx, viewer.ID, videoID); err != nil {
				logger.Warn("failed to record watch history", "videoId", videoID, "error", err)
			}
		case errors.Is(err, repositories.ErrNotFound):
			// Unregistered viewers still get the video back.
		default:
			logger.Warn("failed to resolve viewer", "error", err)
		}
	}

	return dtoFromVideo(existing), nil
}

// Like applies the like transition for the caller: a repeated like toggles
// the reaction off, a like over an existing dislike switches it, and a like
// from a neutral state simply records it.
func (s *Service) Like(ctx context.Context, videoID, sub string) (VideoDTO, error) {
	return s.react(ctx, videoID, sub, true)
}

// Dislike mirrors Like with the liked and disliked sets swapped.
func (s *Service) Dislike(ctx context.Context, videoID, sub string) (VideoDTO, error) {
	return s.react(ctx, videoID, sub, false)
}

func (s *Service) react(ctx context.Context, videoID, sub string, like bool) (VideoDTO, error) {
	ctx, span := logging.StartSpan(ctx, "videos.react")
	defer span.End()

	logger := logging.FromContext(ctx)

	if _, err := s.findVideo(ctx, videoID); err != nil {
		return VideoDTO{}, err
	}

	user, err := s.users.FindBySub(ctx, sub)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return VideoDTO{}, ErrUserNotFound
		}
		return VideoDTO{}, fmt.Errorf("resolve user: %w", err)
	}

	likeDelta, dislikeDelta, err := s.applyTransition(ctx, user, videoID, like)
	if err != nil {
		return VideoDTO{}, err
	}

	updated, err := s.videos.AdjustReactions(ctx, videoID, likeDelta, dislikeDelta)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return VideoDTO{}, ErrVideoNotFound
		}
		return VideoDTO{}, fmt.Errorf("adjust reaction counters: %w", err)
	}

	logger.Info("reaction applied",
		"videoId", videoID,
		"like", like,
		"likeDelta", likeDelta,
		"dislikeDelta", dislikeDelta,
	)
	return dtoFromVideo(updated), nil
}

// applyTransition mutates the caller's engagement sets and reports the
// counter deltas to apply to the video. The liked and disliked sets stay
// mutually exclusive for every path through here.
func (s *Service) applyTransition(ctx context.Context, user models.User, videoID string, like bool) (likeDelta, dislikeDelta int, err error) {
	inSame := user.HasLiked(videoID)
	inOther := user.HasDisliked(videoID)
	if !like {
		inSame, inOther = inOther, inSame
	}

	switch {
	case inSame:
		// Toggle off.
		if like {
			err = s.users.RemoveLikedVideo(ctx, user.ID, videoID)
			likeDelta = -1
		} else {
			err = s.users.RemoveDislikedVideo(ctx, user.ID, videoID)
			dislikeDelta = -1
		}
	case inOther:
		// Switch sides.
		if like {
			if err = s.users.RemoveDislikedVideo(ctx, user.ID, videoID); err == nil {
				err = s.users.AddLikedVideo(ctx, user.ID, videoID)
			}
			likeDelta, dislikeDelta = 1, -1
		} else {
			if err = s.users.RemoveLikedVideo(ctx, user.ID, videoID); err == nil {
				err = s.users.AddDislikedVideo(ctx, user.ID, videoID)
			}
			likeDelta, dislikeDelta = -1, 1
		}
	default:
		// Fresh reaction.
		if like {
			err = s.users.AddLikedVideo(ctx, user.ID, videoID)
			likeDelta = 1
		} else {
			err = s.users.AddDislikedVideo(ctx, user.ID, videoID)
			dislikeDelta = 1
		}
	}

	if err != nil {
		return 0, 0, fmt.Errorf("update engagement sets: %w", err)
	}
	return likeDelta, dislikeDelta, nil
}

func (s *Service) findVideo(ctx context.Context, videoID string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Video{}, ErrVideoNotFound
		}
		return models.Video{}, fmt.Errorf("find video %s: %w", videoID, err)
	}
	return video, nil
}
