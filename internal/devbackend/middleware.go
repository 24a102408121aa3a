package devbackend

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

type principalContextKey struct{}

// Principal is the authenticated caller of a request.
type Principal struct {
	Username  string
	SessionID string
	Static    bool
}

// PrincipalFromContext returns the principal set by RequireAuth.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// RequireAuth rejects requests without a valid session token. The token is
// read from the session cookie, then a Bearer header, then the access_token
// query parameter.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.authenticate(r)
		if err != nil {
			if errors.Is(err, ErrRedisUnavailable) {
				s.logf("session lookup failed: %v", err)
			}
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authenticate(r *http.Request) (Principal, error) {
	token := extractToken(r, s.cfg.CookieName)
	if token == "" {
		return Principal{}, ErrInvalidToken
	}

	if static := s.cfg.StaticToken; static != "" && subtle.ConstantTimeCompare([]byte(token), []byte(static)) == 1 {
		return Principal{Username: s.cfg.AdminUsername, Static: true}, nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}
	username, err := s.sessions.Lookup(r.Context(), claims.ID)
	if err != nil {
		return Principal{}, err
	}
	if username != claims.Subject {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Username: username, SessionID: claims.ID}, nil
}

func extractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return r.URL.Query().Get("access_token")
}

func bearerToken(value string) (string, bool) {
	const bearer = "bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
