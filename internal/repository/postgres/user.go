package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
)

func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (nickname, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		user.Nickname, user.Password, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("nickname", "nickname is already taken")
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Nickname, err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := db.getUser(ctx, `WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: getting user %d: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	u, err := db.getUser(ctx, `WHERE nickname = $1`, nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", nickname)
		}
		return nil, fmt.Errorf("postgres: getting user %q: %w", nickname, err)
	}
	return u, nil
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.pool.QueryRow(ctx,
		`SELECT id, nickname, password, created_at, updated_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Nickname, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
