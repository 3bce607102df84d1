package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (nickname, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		user.Nickname,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("nickname", "nickname is already taken")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Nickname, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id

	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := db.getUser(ctx, `WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	u, err := db.getUser(ctx, `WHERE nickname = ?`, nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", nickname)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", nickname, err)
	}
	return u, nil
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, nickname, password, created_at, updated_at FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Nickname,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
