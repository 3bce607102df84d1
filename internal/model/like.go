package model

import "time"

// Like marks that a user likes a post. At most one exists per (UserID, PostID).
type Like struct {
	ID        int64     `json:"likeId"    db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	PostID    int64     `json:"postId"    db:"post_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LikeState is the result of a like toggle.
type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)
