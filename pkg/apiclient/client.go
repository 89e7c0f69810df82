// Package apiclient wraps the backend's REST surface in typed calls, one
// HTTP request per operation, with shared error normalization.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Domain errors surfaced to callers in place of raw HTTP statuses.
var (
	ErrAuthFailed   = errors.New("authentication failed, please log in again")
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("internal server error, try again later")
)

// ArtifactPurger is the slice of session storage the client needs: dropping
// every authentication artifact after a 401.
type ArtifactPurger interface {
	PurgeAuth()
}

type Client struct {
	baseURL   string
	httpc     *http.Client
	artifacts ArtifactPurger
	logger    *zap.Logger
}

// New builds a client against baseURL (e.g. "http://localhost:3000/api").
// artifacts may be nil when the consumer keeps no session state.
func New(baseURL string, artifacts ArtifactPurger, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		httpc:     &http.Client{},
		artifacts: artifacts,
		logger:    logger,
	}
}

type errorBody struct {
	Message string `json:"message"`
}

// do performs one request and decodes a success body into out (skipped when
// out is nil, for 204 responses).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalizeError(resp, method, path)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// normalizeError maps a failure response onto a domain error. A 401
// additionally purges every locally persisted auth artifact.
func (c *Client) normalizeError(resp *http.Response, method, path string) error {
	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.artifacts != nil {
			c.artifacts.PurgeAuth()
		}
		c.logger.Warn("Authentication error, cleared auth data",
			zap.String("method", method),
			zap.String("path", path),
		)
		return ErrAuthFailed
	case resp.StatusCode == http.StatusForbidden:
		return ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return ErrServer
	}

	if eb.Message != "" {
		return errors.New(eb.Message)
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}
