package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// View is the panel a session is allowed to see. Exactly one is active.
type View string

const (
	ViewLogin View = "login"
	ViewUser  View = "user"
	ViewAdmin View = "admin"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

// cookieLifetime only bounds the browser cookie; sessions never expire on
// their own and end through logout.
const cookieLifetime = 365 * 24 * time.Hour

// Claims defines the session token claims.
type Claims struct {
	SessionID string `json:"sessionId"`
	View      View   `json:"view"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session holds elevated privileges.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.View == ViewAdmin
}

type contextKey string

// ClaimsKey is the context key for session claims.
const ClaimsKey = contextKey("sessionClaims")

// Sessions issues and validates session tokens. Tokens carry no expiry, so
// logged-out session ids are remembered until the process restarts.
type Sessions struct {
	key    []byte
	secure bool

	mu      sync.Mutex
	revoked map[string]struct{}
}

// NewSessions creates a token issuer signing with secret.
func NewSessions(secret string, secure bool) *Sessions {
	return &Sessions{key: []byte(secret), secure: secure, revoked: make(map[string]struct{})}
}

// Revoke ends a session. Its token is rejected from then on, whether it
// arrives as a cookie or a bearer header.
func (s *Sessions) Revoke(sessionID string) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = struct{}{}
}

func (s *Sessions) isRevoked(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[sessionID]
	return ok
}

// Issue creates a token for a fresh session in view.
func (s *Sessions) Issue(view View) (string, *Claims, error) {
	claims := &Claims{
		SessionID: uuid.New().String(),
		View:      view,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate parses and validates a token string.
func (s *Sessions) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if s.isRevoked(claims.SessionID) {
		return nil, fmt.Errorf("session %s was logged out", claims.SessionID)
	}
	return claims, nil
}

// SetCookie writes the session cookie.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(cookieLifetime),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// ClearCookie removes the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// FromRequest returns the session claims carried by r, or nil for a
// browser still on the login view.
func (s *Sessions) FromRequest(r *http.Request) *Claims {
	var tokenStr string

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			tokenStr = after
		}
	}
	if tokenStr == "" {
		if cookie, err := r.Cookie(CookieName); err == nil {
			tokenStr = cookie.Value
		}
	}
	if tokenStr == "" {
		return nil
	}

	claims, err := s.Validate(tokenStr)
	if err != nil {
		return nil
	}
	return claims
}

// ClaimsFrom returns the claims stored in ctx by Middleware.
func ClaimsFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsKey).(*Claims)
	return claims
}

// ViewOf returns the view of the session in ctx.
func ViewOf(ctx context.Context) View {
	if claims := ClaimsFrom(ctx); claims != nil {
		return claims.View
	}
	return ViewLogin
}

// Middleware attaches session claims, when present, to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := s.FromRequest(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireView rejects requests whose session is not in one of views.
func RequireView(views ...View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := ViewOf(r.Context())
			for _, v := range views {
				if current == v {
					next.ServeHTTP(w, r)
					return
				}
			}
			if current == ViewLogin {
				http.Error(w, "Missing session", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
