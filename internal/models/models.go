package models

import "time"

// VideoStatus controls the visibility of a video.
type VideoStatus string

const (
	StatusPublic  VideoStatus = "PUBLIC"
	StatusPrivate VideoStatus = "PRIVATE"
)

// Valid reports whether the status is one of the known values.
func (s VideoStatus) Valid() bool {
	return s == StatusPublic || s == StatusPrivate
}

// Comment is embedded in a video document in submission order.
type Comment struct {
	AuthorSub string    `bson:"authorSub" json:"authorSub"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Video is the document persisted for every uploaded video.
type Video struct {
	ID           string      `bson:"_id,omitempty" json:"id"`
	Title        string      `bson:"title" json:"title"`
	Description  string      `bson:"description" json:"description"`
	UserID       string      `bson:"userId" json:"userId"`
	Likes        int         `bson:"likes" json:"likes"`
	Dislikes     int         `bson:"dislikes" json:"dislikes"`
	Tags         []string    `bson:"tags" json:"tags"`
	VideoURL     string      `bson:"videoUrl" json:"videoUrl"`
	Status       VideoStatus `bson:"status" json:"videoStatus"`
	ViewCount    int         `bson:"viewCount" json:"viewCount"`
	ThumbnailURL string      `bson:"thumbnailUrl" json:"thumbnailUrl"`
	Comments     []Comment   `bson:"comments" json:"comments"`
}

// User is created on first registration against the identity provider and
// accumulates engagement state afterwards. The sub claim is unique.
type User struct {
	ID             string   `bson:"_id,omitempty" json:"id"`
	Sub            string   `bson:"sub" json:"sub"`
	FirstName      string   `bson:"firstName" json:"firstName"`
	LastName       string   `bson:"lastName" json:"lastName"`
	FullName       string   `bson:"fullName" json:"fullName"`
	Email          string   `bson:"email" json:"email"`
	LikedVideos    []string `bson:"likedVideos" json:"likedVideos"`
	DislikedVideos []string `bson:"dislikedVideos" json:"dislikedVideos"`
	WatchedVideos  []string `bson:"watchedVideos" json:"watchedVideos"`
}

// HasLiked reports whether the user's liked set contains the video.
func (u User) HasLiked(videoID string) bool {
	return contains(u.LikedVideos, videoID)
}

// HasDisliked reports whether the user's disliked set contains the video.
func (u User) HasDisliked(videoID string) bool {
	return contains(u.DislikedVideos, videoID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
