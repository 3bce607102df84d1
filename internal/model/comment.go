package model

import "time"

type Comment struct {
	ID        int64     `json:"commentId" db:"id"`
	PostID    int64     `json:"postId"    db:"post_id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	Nickname  string    `json:"nickname"  db:"nickname"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (c *Comment) OwnerID() int64 { return c.UserID }
