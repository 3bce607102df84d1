package handler

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/community-board/internal/auth"
	"github.com/sakif/community-board/internal/service"
)

// AuthHandler serves signup, login, logout and the current principal.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
	errors       *Errors
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. The session cookie's Max-Age
// follows the token lifetime; tokens without expiry get a browser-session
// cookie.
func NewAuthHandler(svc *service.AuthService, cookieSecure bool, errs *Errors, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		cookieSecure: cookieSecure,
		errors:       errs,
		logger:       logger,
	}
}

type signupRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleSignup registers a user.
//
// HTTP: POST /signup {"nickname", "password", "confirm"} → 201
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if _, err := h.auth.Signup(r.Context(), req.Nickname, req.Password, req.Confirm); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Message: "signup completed"})
}

// HandleLogin exchanges credentials for a session.
//
// HTTP: POST /login {"nickname", "password"} → 200 {"token"}
//
// The token is returned in the body and set as the "authorization" cookie
// (HttpOnly, SameSite=Lax) with the value "Bearer <token>".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Nickname, req.Password)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	maxAge := int(h.auth.SessionTTL() / time.Second)
	http.SetCookie(w, auth.SessionCookie(res.Token, maxAge, h.cookieSecure))
	h.logger.Debug("session cookie issued",
		slog.String("requestID", chimiddleware.GetReqID(r.Context())),
		slog.Int64("userID", res.User.ID),
		slog.Int("maxAge", maxAge),
	)
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token})
}

// HandleLogout clears the session cookie. Tokens are stateless, so a copy
// of the token kept elsewhere stays valid until it expires.
//
// HTTP: POST /logout → 200
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	h.logger.Info("session cookie cleared",
		slog.String("requestID", chimiddleware.GetReqID(r.Context())),
	)
	writeJSON(w, http.StatusOK, Response{Message: "logged out"})
}

// HandleMe returns the authenticated principal.
//
// HTTP: GET /me → 200 {"data": {"userId", "nickname"}}
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoPrincipal)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: principal})
}
