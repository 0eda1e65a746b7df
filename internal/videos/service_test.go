package videos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/tubestream/backend/internal/models"
	"github.com/tubestream/backend/internal/repositories"
)

type videoRepoStub struct {
	videos      map[string]models.Video
	nextID      string
	insertCount int
	updateCount int
	deleteCount int
	updateErr   error
}

func newVideoRepoStub() *videoRepoStub {
	return &videoRepoStub{videos: make(map[string]models.Video), nextID: "1"}
}

func (r *videoRepoStub) Insert(ctx context.Context, video models.Video) (models.Video, error) {
	r.insertCount++
	video.ID = r.nextID
	r.videos[video.ID] = video
	return video, nil
}

func (r *videoRepoStub) FindByID(ctx context.Context, id string) (models.Video, error) {
	video, ok := r.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (r *videoRepoStub) Update(ctx context.Context, video models.Video) error {
	r.updateCount++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.videos[video.ID] = video
	return nil
}

func (r *videoRepoStub) Delete(ctx context.Context, id string) error {
	r.deleteCount++
	if _, ok := r.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *videoRepoStub) AdjustReactions(ctx context.Context, id string, likeDelta, dislikeDelta int) (models.Video, error) {
	video, ok := r.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	video.Likes += likeDelta
	video.Dislikes += dislikeDelta
	r.videos[id] = video
	return video, nil
}

func (r *videoRepoStub) IncrementViewCount(ctx context.Context, id string) error {
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.ViewCount++
	r.videos[id] = video
	return nil
}

type userRepoStub struct {
	users   map[string]models.User
	history map[string][]string
}

func newUserRepoStub(users ...models.User) *userRepoStub {
	stub := &userRepoStub{users: make(map[string]models.User), history: make(map[string][]string)}
	for _, u := range users {
		stub.users[u.Sub] = u
	}
	return stub
}

func (r *userRepoStub) Insert(ctx context.Context, user models.User) (models.User, error) {
	user.ID = "user-" + user.Sub
	r.users[user.Sub] = user
	return user, nil
}

func (r *userRepoStub) FindBySub(ctx context.Context, sub string) (models.User, error) {
	user, ok := r.users[sub]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (r *userRepoStub) UpdateProfile(ctx context.Context, user models.User) error {
	r.users[user.Sub] = user
	return nil
}

func (r *userRepoStub) bySub(userID string) (string, models.User, bool) {
	for sub, u := range r.users {
		if u.ID == userID {
			return sub, u, true
		}
	}
	return "", models.User{}, false
}

func (r *userRepoStub) AddLikedVideo(ctx context.Context, userID, videoID string) error {
	sub, user, ok := r.bySub(userID)
	if !ok {
		return repositories.ErrNotFound
	}
	user.LikedVideos = appendUnique(user.LikedVideos, videoID)
	r.users[sub] = user
	return nil
}

func (r *userRepoStub) RemoveLikedVideo(ctx context.Context, userID, videoID string) error {
	sub, user, ok := r.bySub(userID)
	if !ok {
		return repositories.ErrNotFound
	}
	user.LikedVideos = remove(user.LikedVideos, videoID)
	r.users[sub] = user
	return nil
}

func (r *userRepoStub) AddDislikedVideo(ctx context.Context, userID, videoID string) error {
	sub, user, ok := r.bySub(userID)
	if !ok {
		return repositories.ErrNotFound
	}
	user.DislikedVideos = appendUnique(user.DislikedVideos, videoID)
	r.users[sub] = user
	return nil
}

func (r *userRepoStub) RemoveDislikedVideo(ctx context.Context, userID, videoID string) error {
	sub, user, ok := r.bySub(userID)
	if !ok {
		return repositories.ErrNotFound
	}
	user.DislikedVideos = remove(user.DislikedVideos, videoID)
	r.users[sub] = user
	return nil
}

func (r *userRepoStub) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	r.history[userID] = append(r.history[userID], videoID)
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type storageStub struct {
	saveURL    string
	saveErr    error
	saveCount  int
	deleted    []string
	deleteErrs map[string]error
}

func (s *storageStub) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	s.saveCount++
	if s.saveErr != nil {
		return "", s.saveErr
	}
	return s.saveURL, nil
}

func (s *storageStub) Delete(ctx context.Context, fileURL string) error {
	if err := s.deleteErrs[fileURL]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	store := &storageStub{saveURL: "s3-url"}
	svc := NewService(newVideoRepoStub(), newUserRepoStub(), store)

	_, err := svc.Upload(context.Background(), FileUpload{Filename: "clip.mp4", Size: 0}, "auth0|1")
	if !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload got %v", err)
	}
	if store.saveCount != 0 {
		t.Fatalf("storage must not be called for empty uploads, got %d calls", store.saveCount)
	}
}

func TestUploadPersistsStoredURL(t *testing.T) {
	repo := newVideoRepoStub()
	store := &storageStub{saveURL: "s3-url"}
	svc := NewService(repo, newUserRepoStub(), store)

	upload := FileUpload{
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Size:        4,
		Content:     strings.NewReader("data"),
	}

	result, err := svc.Upload(context.Background(), upload, "auth0|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.VideoID != "1" || result.VideoURL != "s3-url" {
		t.Fatalf("unexpected result: %+v", result)
	}

	persisted := repo.videos["1"]
	if persisted.VideoURL != "s3-url" {
		t.Fatalf("persisted record has url %q", persisted.VideoURL)
	}
	if persisted.UserID != "auth0|1" {
		t.Fatalf("persisted record has owner %q", persisted.UserID)
	}
	if persisted.Likes != 0 || persisted.Dislikes != 0 {
		t.Fatalf("counters must start at zero: %+v", persisted)
	}
	if persisted.Status != models.StatusPublic {
		t.Fatalf("expected default PUBLIC status got %q", persisted.Status)
	}
}

func newReactionFixture(t *testing.T, user models.User) (*Service, *videoRepoStub, *userRepoStub) {
	t.Helper()
	videoRepo := newVideoRepoStub()
	videoRepo.videos["v1"] = models.Video{ID: "v1", Title: "first", Status: models.StatusPublic}
	userRepo := newUserRepoStub(user)
	return NewService(videoRepo, userRepo, &storageStub{}), videoRepo, userRepo
}

func TestLikeFromNeutralState(t *testing.T) {
	svc, videoRepo, userRepo := newReactionFixture(t, models.User{ID: "u1", Sub: "auth0|1"})

	dto, err := svc.Like(context.Background(), "v1", "auth0|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Likes != 1 || dto.Dislikes != 0 {
		t.Fatalf("unexpected counts: likes=%d dislikes=%d", dto.Likes, dto.Dislikes)
	}
	if !userRepo.users["auth0|1"].HasLiked("v1") {
		t.Fatal("liked set must contain v1")
	}
	if videoRepo.videos["v1"].Likes != 1 {
		t.Fatalf("persisted like count is %d", videoRepo.videos["v1"].Likes)
	}
}

func TestLikeTwiceReturnsToNeutral(t *testing.T) {
	svc, videoRepo, userRepo := newReactionFixture(t, models.User{ID: "u1", Sub: "auth0|1"})

	if _, err := svc.Like(context.Background(), "v1", "auth0|1"); err != nil {
		t.Fatalf("first like: %v", err)
	}
	dto, err := svc.Like(context.Background(), "v1", "auth0|1")
	if err != nil {
		t.Fatalf("second like: %v", err)
	}

	if dto.Likes != 0 || dto.Dislikes != 0 {
		t.Fatalf("expected neutral counts got likes=%d dislikes=%d", dto.Likes, dto.Dislikes)
	}
	user := userRepo.users["auth0|1"]
	if user.HasLiked("v1") || user.HasDisliked("v1") {
		t.Fatalf("expected neutral engagement state: %+v", user)
	}
	if videoRepo.videos["v1"].Likes != 0 {
		t.Fatalf("persisted like count is %d", videoRepo.videos["v1"].Likes)
	}
}

func TestLikeSwitchesExistingDislike(t *testing.T) {
	svc, videoRepo, userRepo := newReactionFixture(t, models.User{
		ID:             "u1",
		Sub:            "auth0|1",
		DislikedVideos: []string{"v1"},
	})
	videoRepo.videos["v1"] = models.Video{ID: "v1", Dislikes: 1, Status: models.StatusPublic}

	dto, err := svc.Like(context.Background(), "v1", "auth0|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Likes != 1 || dto.Dislikes != 0 {
		t.Fatalf("unexpected counts: likes=%d dislikes=%d", dto.Likes, dto.Dislikes)
	}
	user := userRepo.users["auth0|1"]
	if !user.HasLiked("v1") {
		t.Fatal("liked set must contain v1 after switch")
	}
	if user.HasDisliked("v1") {
		t.Fatal("disliked set must not contain v1 after switch")
	}
}

func TestDislikeSwitchesExistingLike(t *testing.T) {
	svc, videoRepo, userRepo := newReactionFixture(t, models.User{
		ID:          "u1",
		Sub:         "auth0|1",
		LikedVideos: []string{"v1"},
	})
	videoRepo.videos["v1"] = models.Video{ID: "v1", Likes: 1, Status: models.StatusPublic}

	dto, err := svc.Dislike(context.Background(), "v1", "auth0|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Likes != 0 || dto.Dislikes != 1 {
		t.Fatalf("unexpected counts: likes=%d dislikes=%d", dto.Likes, dto.Dislikes)
	}
	user := userRepo.users["auth0|1"]
	if user.HasLiked("v1") || !user.HasDisliked("v1") {
		t.Fatalf("unexpected engagement state: %+v", user)
	}
}

func TestReactionSetsStayMutuallyExclusive(t *testing.T) {
	svc, _, userRepo := newReactionFixture(t, models.User{ID: "u1", Sub: "auth0|1"})

	sequence := []func(context.Context, string, string) (VideoDTO, error){
		svc.Like, svc.Dislike, svc.Dislike, svc.Like, svc.Like,
	}
	for i, step := range sequence {
		if _, err := step(context.Background(), "v1", "auth0|1"); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		user := userRepo.users["auth0|1"]
		if user.HasLiked("v1") && user.HasDisliked("v1") {
			t.Fatalf("step %d: video in both engagement sets", i)
		}
	}
}

func TestReactionUnknownVideo(t *testing.T) {
	svc, _, _ := newReactionFixture(t, models.User{ID: "u1", Sub: "auth0|1"})

	if _, err := svc.Like(context.Background(), "missing", "auth0|1"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound got %v", err)
	}
}

func TestReactionUnregisteredUser(t *testing.T) {
	svc, _, _ := newReactionFixture(t, models.User{ID: "u1", Sub: "auth0|1"})

	if _, err := svc.Like(context.Background(), "v1", "auth0|stranger"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound got %v", err)
	}
}

func TestEditUnknownVideoNeverPersists(t *testing.T) {
	repo := newVideoRepoStub()
	svc := NewService(repo, newUserRepoStub(), &storageStub{})

	_, err := svc.Edit(context.Background(), VideoDTO{ID: "missing", Title: "x", Status: models.StatusPublic})
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound got %v", err)
	}
	if repo.updateCount != 0 {
		t.Fatalf("update must not be attempted, got %d calls", repo.updateCount)
	}
}

func TestEditReturnsPersistedState(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1", Title: "old", Likes: 3, VideoURL: "s3-url", Status: models.StatusPublic}
	svc := NewService(repo, newUserRepoStub(), &storageStub{})

	dto, err := svc.Edit(context.Background(), VideoDTO{
		ID:           "v1",
		Title:        "new title",
		Description:  "desc",
		Tags:         []string{"go", "video"},
		Status:       models.StatusPrivate,
		ThumbnailURL: "thumb-url",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Title != "new title" || dto.Status != models.StatusPrivate {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	// Server-computed fields come from the stored record, not the input.
	if dto.Likes != 3 || dto.VideoURL != "s3-url" {
		t.Fatalf("expected persisted state in response: %+v", dto)
	}

	persisted := repo.videos["v1"]
	if persisted.Title != "new title" || persisted.ThumbnailURL != "thumb-url" {
		t.Fatalf("unexpected persisted record: %+v", persisted)
	}
}

func TestEditRejectsUnknownStatus(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1"}
	svc := NewService(repo, newUserRepoStub(), &storageStub{})

	_, err := svc.Edit(context.Background(), VideoDTO{ID: "v1", Status: "HIDDEN"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus got %v", err)
	}
}

func TestUploadThumbnailUnknownVideo(t *testing.T) {
	store := &storageStub{saveURL: "thumb-url"}
	svc := NewService(newVideoRepoStub(), newUserRepoStub(), store)

	_, err := svc.UploadThumbnail(context.Background(), FileUpload{Filename: "t.png", Size: 1, Content: strings.NewReader("x")}, "missing")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound got %v", err)
	}
	if store.saveCount != 0 {
		t.Fatalf("storage must not be called when the video is unknown, got %d calls", store.saveCount)
	}
}

func TestUploadThumbnailSetsURL(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1", VideoURL: "s3-url"}
	svc := NewService(repo, newUserRepoStub(), &storageStub{saveURL: "thumb-url"})

	url, err := svc.UploadThumbnail(context.Background(), FileUpload{Filename: "t.png", Size: 1, Content: strings.NewReader("x")}, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "thumb-url" {
		t.Fatalf("unexpected url %q", url)
	}
	if repo.videos["v1"].ThumbnailURL != "thumb-url" {
		t.Fatalf("thumbnail url not persisted: %+v", repo.videos["v1"])
	}
}

func TestDeleteShortCircuitsOnPrimaryFileFailure(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1", VideoURL: "s3-url", ThumbnailURL: "thumb-url"}
	store := &storageStub{deleteErrs: map[string]error{"s3-url": fmt.Errorf("s3 unavailable")}}
	svc := NewService(repo, newUserRepoStub(), store)

	err := svc.Delete(context.Background(), "v1")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.deleted) != 0 {
		t.Fatalf("no further deletions may be attempted, got %v", store.deleted)
	}
	if repo.deleteCount != 0 {
		t.Fatalf("record deletion must not be attempted, got %d calls", repo.deleteCount)
	}
	if _, ok := repo.videos["v1"]; !ok {
		t.Fatal("record must survive a failed asset deletion")
	}
}

func TestDeleteRemovesAssetsThenRecord(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1", VideoURL: "s3-url", ThumbnailURL: "thumb-url"}
	store := &storageStub{}
	svc := NewService(repo, newUserRepoStub(), store)

	if err := svc.Delete(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.deleted) != 2 || store.deleted[0] != "s3-url" || store.deleted[1] != "thumb-url" {
		t.Fatalf("unexpected deletion order: %v", store.deleted)
	}
	if _, ok := repo.videos["v1"]; ok {
		t.Fatal("record must be removed")
	}
}

func TestDeleteUnknownVideo(t *testing.T) {
	svc := NewService(newVideoRepoStub(), newUserRepoStub(), &storageStub{})

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound got %v", err)
	}
}

func TestDetailsRecordsViewAndHistory(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1", Title: "first", ViewCount: 4}
	userRepo := newUserRepoStub(models.User{ID: "u1", Sub: "auth0|1"})
	svc := NewService(repo, userRepo, &storageStub{})

	dto, err := svc.Details(context.Background(), "v1", "auth0|1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.ViewCount != 5 {
		t.Fatalf("expected view count 5 got %d", dto.ViewCount)
	}
	if history := userRepo.history["u1"]; len(history) != 1 || history[0] != "v1" {
		t.Fatalf("unexpected watch history: %v", history)
	}
}

func TestDetailsForUnregisteredViewer(t *testing.T) {
	repo := newVideoRepoStub()
	repo.videos["v1"] = models.Video{ID: "v1"}
	svc := NewService(repo, newUserRepoStub(), &storageStub{})

	dto, err := svc.Details(context.Background(), "v1", "auth0|stranger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ViewCount != 1 {
		t.Fatalf("expected view count 1 got %d", dto.ViewCount)
	}
}
