package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Nickname: "alice01", Password: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateNickname(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken")

	err := db.CreateUser(context.Background(), &model.User{Nickname: "taken", Password: "x"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "bob")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Nickname != "bob" {
		t.Errorf("Nickname = %q, want %q", found.Nickname, "bob")
	}
	if found.Password != created.Password {
		t.Errorf("Password hash was not persisted")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByNickname(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "carol")

	found, err := db.GetUserByNickname(context.Background(), "carol")
	if err != nil {
		t.Fatalf("GetUserByNickname() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}

	_, err = db.GetUserByNickname(context.Background(), "Carol")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("nickname lookup should be case-sensitive, got %v", err)
	}
}
