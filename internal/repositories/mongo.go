package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tubestream/backend/internal/models"
)

const (
	videoCollection = "videos"
	userCollection  = "users"
)

// MongoVideoRepository provides MongoDB-backed persistence for videos.
type MongoVideoRepository struct {
	videos *mongo.Collection
}

// NewMongoVideoRepository constructs a video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{videos: db.Collection(videoCollection)}
}

// Insert persists a new video document, assigning an identifier.
func (r *MongoVideoRepository) Insert(ctx context.Context, video models.Video) (models.Video, error) {
	if video.ID == "" {
		video.ID = primitive.NewObjectID().Hex()
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}
	if video.Comments == nil {
		video.Comments = []models.Comment{}
	}

	if _, err := r.videos.InsertOne(ctx, video); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Video{}, ErrConflict
		}
		return models.Video{}, fmt.Errorf("insert video: %w", err)
	}

	return video, nil
}

// FindByID fetches a video document by its identifier.
func (r *MongoVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	var video models.Video
	err := r.videos.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("find video %s: %w", id, err)
	}
	return video, nil
}

// Update overwrites the mutable metadata of an existing video document.
func (r *MongoVideoRepository) Update(ctx context.Context, video models.Video) error {
	update := bson.M{"$set": bson.M{
		"title":        video.Title,
		"description":  video.Description,
		"tags":         video.Tags,
		"videoUrl":     video.VideoURL,
		"status":       video.Status,
		"thumbnailUrl": video.ThumbnailURL,
	}}

	res, err := r.videos.UpdateOne(ctx, bson.M{"_id": video.ID}, update)
	if err != nil {
		return fmt.Errorf("update video %s: %w", video.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a video document.
func (r *MongoVideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.videos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustReactions applies counter deltas with a single atomic $inc and
// returns the post-update document.
func (r *MongoVideoRepository) AdjustReactions(ctx context.Context, id string, likeDelta, dislikeDelta int) (models.Video, error) {
	update := bson.M{"$inc": bson.M{
		"likes":    likeDelta,
		"dislikes": dislikeDelta,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var video models.Video
	err := r.videos.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("adjust reactions for video %s: %w", id, err)
	}
	return video, nil
}

// IncrementViewCount bumps the view counter by one.
func (r *MongoVideoRepository) IncrementViewCount(ctx context.Context, id string) error {
	res, err := r.videos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": 1}})
	if err != nil {
		return fmt.Errorf("increment view count for video %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoUserRepository provides MongoDB-backed persistence for users.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository constructs a user repository backed by MongoDB.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique index on the identity-provider subject.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sub", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user sub index: %w", err)
	}
	return nil
}

// Insert persists a new user document, assigning an identifier.
func (r *MongoUserRepository) Insert(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.LikedVideos == nil {
		user.LikedVideos = []string{}
	}
	if user.DislikedVideos == nil {
		user.DislikedVideos = []string{}
	}
	if user.WatchedVideos == nil {
		user.WatchedVideos = []string{}
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindBySub fetches a user by their identity-provider subject claim.
func (r *MongoUserRepository) FindBySub(ctx context.Context, sub string) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"sub": sub}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by sub: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the profile fields sourced from the identity provider.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	update := bson.M{"$set": bson.M{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"fullName":  user.FullName,
		"email":     user.Email,
	}}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLikedVideo adds the video to the user's liked set.
func (r *MongoUserRepository) AddLikedVideo(ctx context.Context, userID, videoID string) error {
	return r.applySetUpdate(ctx, userID, bson.M{"$addToSet": bson.M{"likedVideos": videoID}})
}

// RemoveLikedVideo removes the video from the user's liked set.
func (r *MongoUserRepository) RemoveLikedVideo(ctx context.Context, userID, videoID string) error {
	return r.applySetUpdate(ctx, userID, bson.M{"$pull": bson.M{"likedVideos": videoID}})
}

// AddDislikedVideo adds the video to the user's disliked set.
func (r *MongoUserRepository) AddDislikedVideo(ctx context.Context, userID, videoID string) error {
	return r.applySetUpdate(ctx, userID, bson.M{"$addToSet": bson.M{"dislikedVideos": videoID}})
}

// RemoveDislikedVideo removes the video from the user's disliked set.
func (r *MongoUserRepository) RemoveDislikedVideo(ctx context.Context, userID, videoID string) error {
	return r.applySetUpdate(ctx, userID, bson.M{"$pull": bson.M{"dislikedVideos": videoID}})
}

// AppendWatchHistory records the video at the end of the user's watch history.
func (r *MongoUserRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	return r.applySetUpdate(ctx, userID, bson.M{"$push": bson.M{"watchedVideos": videoID}})
}

func (r *MongoUserRepository) applySetUpdate(ctx context.Context, userID string, update bson.M) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("update engagement for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
