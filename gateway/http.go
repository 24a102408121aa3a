package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kaptinlin/jsonschema"
)

const (
	// DefaultBaseURL is the backend API root of a local console install.
	DefaultBaseURL = "http://localhost:8080/api"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Config configures an HTTP gateway.
type Config struct {
	// BaseURL is the API root; endpoint paths are appended to it.
	BaseURL string
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
	// UserAgent is sent when non-empty.
	UserAgent string
	// BearerToken is sent as Authorization on every request when non-empty.
	BearerToken string
	// HTTPClient overrides the default client, which keeps cookies in a jar.
	HTTPClient *http.Client
}

// DefaultConfig returns the local-install defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// HTTP talks to GET /me, POST /login and POST /logout.
type HTTP struct {
	base        string
	client      *http.Client
	userAgent   string
	bearerToken string
	profile     *jsonschema.Schema
}

var _ goSession.Gateway = (*HTTP)(nil)

// NewHTTP validates cfg and returns a gateway.
func NewHTTP(cfg Config) (*HTTP, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("gateway base url %q must be http or https", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Jar: jar, Timeout: timeout}
	}

	profile, err := compileSchema(profileEnvelopeSchema)
	if err != nil {
		return nil, err
	}

	return &HTTP{
		base:        base,
		client:      client,
		userAgent:   cfg.UserAgent,
		bearerToken: strings.TrimSpace(cfg.BearerToken),
		profile:     profile,
	}, nil
}

// BaseURL returns the normalized API root.
func (g *HTTP) BaseURL() string { return g.base }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type identityPayload struct {
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
	Token     string `json:"token"`
}

// Profile fetches the current identity. Any response that is not a valid
// profile envelope is an error.
func (g *HTTP) Profile(ctx context.Context) (*goSession.Identity, error) {
	body, err := g.do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: profile body is not JSON", goSession.ErrMalformedResponse)
	}
	if err := validateJSON(g.profile, body); err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrMalformedResponse, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrMalformedResponse, err)
	}
	return decodeIdentity(env.Data)
}

// Login posts credentials. A 2xx response whose data is missing or not an
// object yields a nil identity and no error.
func (g *HTTP) Login(ctx context.Context, creds goSession.Credentials) (*goSession.Identity, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}

	body, err := g.do(ctx, http.MethodPost, "/login", payload)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil
	}
	identity, err := decodeIdentity(env.Data)
	if err != nil {
		return nil, nil
	}
	return identity, nil
}

// Logout asks the backend to drop the session cookie.
func (g *HTTP) Logout(ctx context.Context) error {
	_, err := g.do(ctx, http.MethodPost, "/logout", nil)
	return err
}

func (g *HTTP) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	if g.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.bearerToken)
	}
	requestID := goSession.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &goSession.GatewayError{Err: fmt.Errorf("%w: %v", goSession.ErrGatewayUnavailable, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &goSession.GatewayError{Status: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", goSession.ErrGatewayUnavailable, err)}
	}

	if resp.StatusCode/100 != 2 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func statusError(status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	sentinel := goSession.ErrGatewayStatus
	if status == http.StatusUnauthorized {
		sentinel = goSession.ErrUnauthorized
	}
	return &goSession.GatewayError{
		Status:  status,
		Message: strings.TrimSpace(env.Error),
		Err:     sentinel,
	}
}

var errNotObject = errors.New("identity payload is not an object")

// decodeIdentity reads an identity object. The session token, when present,
// is kept out of Attributes.
func decodeIdentity(raw json.RawMessage) (*goSession.Identity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrMalformedResponse, err)
	}
	var p identityPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrMalformedResponse, err)
	}
	if strings.TrimSpace(p.Username) == "" {
		return nil, fmt.Errorf("%w: identity has no username", goSession.ErrMalformedResponse)
	}

	identity := &goSession.Identity{Username: p.Username}
	if exp, ok := parseExpiry(p.ExpiresAt, p.Token); ok {
		identity.ExpiresAt = &exp
	}

	delete(fields, "token")
	if attrs, err := json.Marshal(fields); err == nil {
		identity.Attributes = attrs
	}
	return identity, nil
}

// parseExpiry prefers the explicit expires_at field and falls back to the
// exp claim of a JWT session token. The token is not verified; the value is
// informational only.
func parseExpiry(expiresAt, token string) (time.Time, bool) {
	if expiresAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, expiresAt); err == nil {
			return t.UTC(), true
		}
	}
	if token == "" || strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.UTC(), true
}
