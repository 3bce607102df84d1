package handler

import (
	"net/http"

	"github.com/sakif/community-board/internal/auth"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/service"
)

// CommentHandler serves /posts/{postId}/comments. Validation failures on
// these routes are answered with 404, not 412.
type CommentHandler struct {
	comments *service.CommentService
	errors   *Errors
}

func NewCommentHandler(comments *service.CommentService, errs *Errors) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		errors:   errs.WithValidationStatus(http.StatusNotFound),
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleCreate → POST /posts/{postId}/comments {"content"} → 201
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), principal, postID, req.Content)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Message: "comment created", Data: comment})
}

// HandleList → GET /posts/{postId}/comments → 200, newest first
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "post")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	comments, err := h.comments.List(r.Context(), postID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: comments})
}

// HandleUpdate → PUT /posts/{postId}/comments/{commentId} {"content"} → 200
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, postID, commentID, ok := h.target(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), principal, postID, commentID, req.Content)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Message: "comment updated", Data: comment})
}

// HandleDelete → DELETE /posts/{postId}/comments/{commentId} → 200
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, postID, commentID, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.comments.Delete(r.Context(), principal, postID, commentID); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Message: "comment deleted"})
}

// target resolves the principal and both path ids, writing the error
// response itself when one is missing.
func (h *CommentHandler) target(w http.ResponseWriter, r *http.Request) (principal model.Principal, postID, commentID int64, ok bool) {
	principal, ok = auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return principal, 0, 0, false
	}

	var err error
	if postID, err = pathID(r, "postId", "post"); err != nil {
		h.errors.Write(w, r, err)
		return principal, 0, 0, false
	}
	if commentID, err = pathID(r, "commentId", "comment"); err != nil {
		h.errors.Write(w, r, err)
		return principal, 0, 0, false
	}
	return principal, postID, commentID, true
}
