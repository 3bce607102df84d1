package handler

import (
	"errors"
	"net/http"

	"github.com/sakif/community-board/internal/auth"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/service"
)

// errNoPrincipal means a protected handler was mounted without
// RequireAuth. It is a wiring bug and surfaces as the generic error.
var errNoPrincipal = errors.New("handler: no principal in request context")

// PostHandler serves posts and likes.
type PostHandler struct {
	posts  *service.PostService
	likes  *service.LikeService
	errors *Errors
}

func NewPostHandler(posts *service.PostService, likes *service.LikeService, errs *Errors) *PostHandler {
	return &PostHandler{posts: posts, likes: likes, errors: errs}
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type likeResponse struct {
	State model.LikeState `json:"state"`
}

// HandleCreate → POST /posts {"title", "content"} → 201
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), principal, req.Title, req.Content)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Message: "post created", Data: post})
}

// HandleList → GET /posts → 200, newest first, without content
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: posts})
}

// HandleGet → GET /posts/{postId} → 200, 404 when missing
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: post})
}

// HandleUpdate → PUT /posts/{postId} {"title", "content"} → 200
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}
	id, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), principal, id, req.Title, req.Content)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Message: "post updated", Data: post})
}

// HandleDelete → DELETE /posts/{postId} → 200
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}
	id, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), principal, id); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Message: "post deleted"})
}

// HandleToggleLike → PUT /posts/{postId}/like → 200 {"data": {"state"}}
func (h *PostHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}
	id, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	state, err := h.likes.Toggle(r.Context(), principal, id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	msg := "post liked"
	if state == model.Unliked {
		msg = "post unliked"
	}
	writeJSON(w, http.StatusOK, Response{Message: msg, Data: likeResponse{State: state}})
}

// HandleLiked → GET /posts/like → 200, the caller's liked posts
func (h *PostHandler) HandleLiked(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}

	posts, err := h.likes.LikedPosts(r.Context(), principal)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: posts})
}
