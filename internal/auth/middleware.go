package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/metrics"
	"github.com/sakif/community-board/internal/model"
)

// CookieName is the session cookie. Its value is "Bearer <jwt>".
const CookieName = "authorization"

const scheme = "Bearer"

// contextKey is unexported so that only this package can set or read the
// principal stored in a context.
type contextKey struct{}

var principalKey contextKey

// UserLookup is the slice of the user repository the validator needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// ErrorResponder writes an error response. The handler package provides
// the implementation so that auth failures share the API error shape.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// VALIDATION ORDER (first failure wins):
//  1. cookie present
//  2. scheme is "Bearer"
//  3. signature valid, token not expired
//  4. the user in the token still exists
//
// On any failure the session cookie is cleared before the error is written,
// so the client never keeps a cookie the server rejects. When all steps
// pass, the model.Principal is stored in the request context.
func RequireAuth(tokens *TokenService, users UserLookup, onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticate(r, tokens, users)
			if err != nil {
				ClearSessionCookie(w)
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func authenticate(r *http.Request, tokens *TokenService, users UserLookup) (model.Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return model.Principal{}, reject(metrics.ReasonMissing, "authentication token is missing")
	}

	gotScheme, raw, _ := strings.Cut(cookie.Value, " ")
	if gotScheme != scheme || raw == "" {
		return model.Principal{}, reject(metrics.ReasonScheme, "token scheme must be Bearer")
	}

	userID, err := tokens.Validate(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return model.Principal{}, reject(metrics.ReasonExpired, "token has expired")
		}
		return model.Principal{}, reject(metrics.ReasonTampered, "token has been tampered with")
	}

	user, err := users.GetUserByID(r.Context(), userID)
	if err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return model.Principal{}, reject(metrics.ReasonStale, "token user no longer exists")
		}
		return model.Principal{}, err
	}

	return model.Principal{UserID: user.ID, Nickname: user.Nickname}, nil
}

func reject(reason, message string) error {
	metrics.AuthFailures.WithLabelValues(reason).Inc()
	return apperror.Unauthenticated(message)
}

// SessionCookie builds the cookie set on login. maxAge of zero makes it a
// browser-session cookie.
func SessionCookie(token string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    scheme + " " + token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie tells the client to drop the session cookie. It is
// safe to call when no cookie was sent.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, or false on
// routes that did not pass through RequireAuth.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok && p.UserID != 0
}
