package devbackend

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Server serves the auth endpoints.
type Server struct {
	cfg      Config
	creds    *credentialChecker
	tokens   *tokenIssuer
	sessions *sessionRegistry
	limiter  *loginLimiter
	logger   *log.Logger
	router   chi.Router
}

// New validates cfg and wires the server to rdb.
func New(cfg Config, rdb redis.UniversalClient) (*Server, error) {
	if rdb == nil {
		return nil, errors.New("devbackend: redis client required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	creds, err := newCredentialChecker(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		creds:    creds,
		tokens:   newTokenIssuer(cfg),
		sessions: newSessionRegistry(rdb, cfg.RedisPrefix),
		limiter:  newLoginLimiter(rdb, cfg),
		logger:   log.Default(),
	}
	s.router = s.routes()
	return s, nil
}

// SetLogger replaces the logger. nil silences logging.
func (s *Server) SetLogger(l *log.Logger) {
	s.logger = l
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)
			r.Get("/me", s.handleProfile)
		})
	})
	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "ok")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	ctx := r.Context()
	ip := clientIP(r)

	if err := s.limiter.Check(ctx, req.Username, ip); err != nil {
		if errors.Is(err, ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, msgTooManyAttempts)
			return
		}
		s.logf("login limiter check failed: %v", err)
	}

	if !s.creds.Check(req.Username, req.Password) {
		if err := s.limiter.Fail(ctx, req.Username, ip); err != nil {
			s.logf("login limiter update failed: %v", err)
		}
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, claims, err := s.tokens.Issue(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgIssueFailed)
		return
	}
	expiresAt := claims.ExpiresAt.Time
	if err := s.sessions.Register(ctx, claims.ID, req.Username, expiresAt); err != nil {
		s.logf("session register failed: %v", err)
		writeError(w, http.StatusInternalServerError, msgIssueFailed)
		return
	}
	if err := s.limiter.Reset(ctx, req.Username); err != nil {
		s.logf("login limiter reset failed: %v", err)
	}

	s.setSessionCookie(w, token, expiresAt)
	writeData(w, http.StatusOK, loginResponse{
		Username:  req.Username,
		ExpiresAt: expiresAt.UTC(),
		Token:     token,
	})
}

// handleLogout revokes the presented session, if any, and always clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := extractToken(r, s.cfg.CookieName); token != "" {
		if claims, err := s.tokens.Parse(token); err == nil {
			if err := s.sessions.Revoke(r.Context(), claims.ID); err != nil {
				s.logf("session revoke failed: %v", err)
			}
		}
	}

	s.setSessionCookie(w, "", time.Unix(0, 0))
	writeData(w, http.StatusOK, "ok")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"username": p.Username})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.SecureCookies,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}

func (s *Server) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf("devbackend: "+format, args...)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
