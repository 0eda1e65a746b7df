package app

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tubestream/backend/internal/config"
	"github.com/tubestream/backend/internal/handlers"
	"github.com/tubestream/backend/internal/middleware"
	"github.com/tubestream/backend/internal/repositories"
	"github.com/tubestream/backend/internal/users"
	"github.com/tubestream/backend/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, database *mongo.Database, assetStore videos.AssetStorage, cfg config.Config) (handlers.Dependencies, error) {
	videoRepo := repositories.NewMongoVideoRepository(database)
	userRepo := repositories.NewMongoUserRepository(database)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return handlers.Dependencies{}, err
	}

	videoService := videos.NewService(videoRepo, userRepo, assetStore)
	registration := users.NewRegistrationService(cfg.Auth.UserInfoEndpoint, cfg.Auth.UserInfoTimeout, userRepo)

	return handlers.Dependencies{
		Videos:              videoService,
		Registration:        registration,
		UploadLimiter:       middleware.NewIPRateLimiter(30, time.Minute, 5, 10*time.Minute),
		RegistrationLimiter: middleware.NewIPRateLimiter(10, time.Minute, 3, 10*time.Minute),
	}, nil
}
