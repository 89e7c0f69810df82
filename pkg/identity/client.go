// Package identity is a thin client for the hosted identity provider. The
// provider is treated as opaque: this package signs users in and out through
// its HTTP endpoints, keeps the session artifacts in local storage, and
// republishes auth-state changes on a channel.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Storage keys follow the provider's own prefix convention.
const (
	KeyAccessToken  = "sb-auth-token"
	KeyRefreshToken = "sb-refresh-token"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"-"`
	User         User      `json:"user"`
}

type AuthEvent struct {
	Type    EventType
	Session *Session
}

// ArtifactStore is the subset of session storage the client writes to.
type ArtifactStore interface {
	Set(key, value string)
	PurgeAuth()
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	store   ArtifactStore
	logger  *zap.Logger

	mu      sync.Mutex
	session *Session
	events  chan AuthEvent
}

func New(baseURL, apiKey string, store ArtifactStore, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{},
		store:   store,
		logger:  logger,
		events:  make(chan AuthEvent, 8),
	}
}

// Events is the provider's session-change stream. The subscription lives for
// the whole process; it is never torn down.
func (c *Client) Events() <-chan AuthEvent {
	return c.events
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type providerError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e providerError) text() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	return e.Message
}

// SignIn exchanges credentials for a session and persists its artifacts.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/v1/token?grant_type=password", email, password, EventSignedIn)
}

// SignUp registers a new user with the provider.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/v1/signup", email, password, EventSignedIn)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string, event EventType) (*Session, error) {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("Identity provider request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		if msg := pe.text(); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, fmt.Errorf("authentication failed: %s", resp.Status)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}

	sess := &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         tr.User,
	}
	if exp, err := tokenExpiry(tr.AccessToken); err == nil {
		sess.ExpiresAt = exp
	} else if tr.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	c.store.Set(KeyAccessToken, sess.AccessToken)
	c.store.Set(KeyRefreshToken, sess.RefreshToken)

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	c.logger.Info("Signed in", zap.String("user_id", sess.User.ID))
	c.emit(AuthEvent{Type: event, Session: sess})
	return sess, nil
}

// SignOut invalidates the session with the provider and purges local
// artifacts.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
		if err != nil {
			return err
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)

		resp, err := c.httpc.Do(req)
		if err != nil {
			c.logger.Error("Sign out request failed", zap.Error(err))
			return err
		}
		resp.Body.Close()
	}

	c.store.PurgeAuth()

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	c.logger.Info("Signed out")
	c.emit(AuthEvent{Type: EventSignedOut})
	return nil
}

// CurrentUser looks up the user behind the active session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil, errors.New("no active session")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user lookup failed: %s", resp.Status)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) emit(ev AuthEvent) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("Auth event dropped, no subscriber draining the stream",
			zap.String("event", string(ev.Type)),
		)
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// provider signed the token and the client only needs the deadline.
func tokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return exp.Time, nil
}
