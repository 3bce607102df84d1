// Package model contains the domain types shared across layers.
//
// Models carry both json tags (for API responses) and db tags naming the
// column they are scanned from. Fields that must never leave the server,
// like the password hash, are tagged json:"-".
package model

import "time"

// User is a registered account. Nickname is unique across the board.
type User struct {
	ID        int64     `json:"userId"    db:"id"`
	Nickname  string    `json:"nickname"  db:"nickname"`
	Password  string    `json:"-"         db:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Principal is the authenticated caller of one request. It is resolved from
// the session token on every request and never persisted.
type Principal struct {
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}
