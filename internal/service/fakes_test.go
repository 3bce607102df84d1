package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
)

// =========================================================================
// IN-MEMORY STORE
// =========================================================================
//
// memStore implements repository.Store with maps behind one mutex. It
// enforces the same contracts as the SQL stores: unique nickname, unique
// (user, post) like, ErrNotFound for missing rows, cascade on post delete.
// failWith makes every call return that error, to exercise store-failure
// paths.

var errStoreDown = errors.New("store is down")

type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]model.User
	posts    map[int64]model.Post
	comments map[int64]model.Comment
	likes    map[int64]model.Like
	failWith error
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]model.User),
		posts:    make(map[int64]model.Post),
		comments: make(map[int64]model.Comment),
		likes:    make(map[int64]model.Like),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) Ping(context.Context) error { return m.failWith }
func (m *memStore) Close() error               { return nil }

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.users {
		if existing.Nickname == u.Nickname {
			return apperror.Conflict("nickname", "nickname is already taken")
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *memStore) GetUserByNickname(_ context.Context, nickname string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Nickname == nickname {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", nickname)
}

func (m *memStore) CreatePost(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p.ID = m.id()
	m.posts[p.ID] = *p
	return nil
}

// view fills the read-side joins. Caller holds mu.
func (m *memStore) view(p model.Post) model.Post {
	p.Nickname = m.users[p.UserID].Nickname
	p.Likes = 0
	for _, l := range m.likes {
		if l.PostID == p.ID {
			p.Likes++
		}
	}
	return p
}

func (m *memStore) GetPost(_ context.Context, id int64) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	v := m.view(p)
	return &v, nil
}

func (m *memStore) listPosts(keep func(model.Post) bool) []model.Post {
	out := make([]model.Post, 0)
	for _, p := range m.posts {
		if keep(p) {
			v := m.view(p)
			v.Content = ""
			out = append(out, v)
		}
	}
	// ids grow with creation time
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memStore) ListPosts(context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.listPosts(func(model.Post) bool { return true }), nil
}

func (m *memStore) ListPostsLikedBy(_ context.Context, userID int64) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	liked := make(map[int64]bool)
	for _, l := range m.likes {
		if l.UserID == userID {
			liked[l.PostID] = true
		}
	}
	return m.listPosts(func(p model.Post) bool { return liked[p.ID] }), nil
}

func (m *memStore) UpdatePost(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	stored, ok := m.posts[p.ID]
	if !ok {
		return apperror.NotFound("post", p.ID)
	}
	stored.Title, stored.Content = p.Title, p.Content
	m.posts[p.ID] = stored
	return nil
}

func (m *memStore) DeletePost(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	for lid, l := range m.likes {
		if l.PostID == id {
			delete(m.likes, lid)
		}
	}
	return nil
}

func (m *memStore) CreateComment(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.posts[c.PostID]; !ok {
		return apperror.NotFound("post", c.PostID)
	}
	c.ID = m.id()
	m.comments[c.ID] = *c
	return nil
}

func (m *memStore) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	c.Nickname = m.users[c.UserID].Nickname
	return &c, nil
}

func (m *memStore) ListComments(_ context.Context, postID int64) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]model.Comment, 0)
	for _, c := range m.comments {
		if c.PostID == postID {
			c.Nickname = m.users[c.UserID].Nickname
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) UpdateComment(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	stored, ok := m.comments[c.ID]
	if !ok {
		return apperror.NotFound("comment", c.ID)
	}
	stored.Content = c.Content
	m.comments[c.ID] = stored
	return nil
}

func (m *memStore) DeleteComment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(m.comments, id)
	return nil
}

func (m *memStore) FindLike(_ context.Context, userID, postID int64) (*model.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			return &l, nil
		}
	}
	return nil, apperror.NotFound("like", fmt.Sprintf("%d/%d", userID, postID))
}

func (m *memStore) CreateLike(_ context.Context, l *model.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.likes {
		if existing.UserID == l.UserID && existing.PostID == l.PostID {
			return apperror.Conflict("like", "post is already liked")
		}
	}
	if _, ok := m.posts[l.PostID]; !ok {
		return apperror.NotFound("post", l.PostID)
	}
	l.ID = m.id()
	m.likes[l.ID] = *l
	return nil
}

func (m *memStore) DeleteLike(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.likes[id]; !ok {
		return apperror.NotFound("like", id)
	}
	delete(m.likes, id)
	return nil
}

func (m *memStore) likeCount(userID, postID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			n++
		}
	}
	return n
}

func (m *memStore) fail(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// seedUser inserts a user directly and returns its principal.
func (m *memStore) seedUser(nickname string) model.Principal {
	u := &model.User{Nickname: nickname, Password: "unused"}
	if err := m.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return model.Principal{UserID: u.ID, Nickname: u.Nickname}
}

func (m *memStore) seedPost(owner model.Principal, title string) int64 {
	p := &model.Post{UserID: owner.UserID, Title: title, Content: "content of " + title}
	if err := m.CreatePost(context.Background(), p); err != nil {
		panic(err)
	}
	return p.ID
}

// vanishingPost answers GetPost from a snapshot taken before the post was
// deleted, so the service passes its existence check and the following
// insert is the first call to see the post gone.
type vanishingPost struct {
	*memStore
	snapshot model.Post
}

func newVanishingPost(m *memStore, postID int64) *vanishingPost {
	p, err := m.GetPost(context.Background(), postID)
	if err != nil {
		panic(err)
	}
	if err := m.DeletePost(context.Background(), postID); err != nil {
		panic(err)
	}
	return &vanishingPost{memStore: m, snapshot: *p}
}

func (v *vanishingPost) GetPost(_ context.Context, id int64) (*model.Post, error) {
	if id == v.snapshot.ID {
		p := v.snapshot
		return &p, nil
	}
	return nil, apperror.NotFound("post", id)
}
