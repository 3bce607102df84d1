package model

import "time"

// Post is a board entry. Nickname and Likes are read-side joins and are
// ignored on write.
type Post struct {
	ID        int64     `json:"postId"            db:"id"`
	UserID    int64     `json:"userId"            db:"user_id"`
	Nickname  string    `json:"nickname"          db:"nickname"`
	Title     string    `json:"title"             db:"title"`
	Content   string    `json:"content,omitempty" db:"content"` // empty in list views
	Likes     int       `json:"likes"             db:"likes"`
	CreatedAt time.Time `json:"createdAt"         db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"         db:"updated_at"`
}

func (p *Post) OwnerID() int64 { return p.UserID }
