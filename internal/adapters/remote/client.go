// Package remote implements repository.Store over the portal's HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/model"
)

// ErrTransport is returned when a call fails on the network or the server
// answers with an unexpected status.
var ErrTransport = errors.New("remote transport error")

// Client calls a portal server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	newKey  func() string
}

var _ repository.Store = (*Client)(nil)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithIdempotencyKeys sets the generator of Idempotency-Key values sent with
// each mutation.
func WithIdempotencyKeys(gen func() string) Option {
	return func(cl *Client) {
		if gen != nil {
			cl.newKey = gen
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		newKey:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetProfile(ctx context.Context) (model.UserProfile, error) {
	var p model.UserProfile
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, http.StatusOK, &p)
	return p, err
}

func (c *Client) GetPersonas(ctx context.Context) ([]model.Persona, error) {
	var ps []model.Persona
	if err := c.do(ctx, http.MethodGet, "/api/personas", nil, http.StatusOK, &ps); err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []model.Persona{}
	}
	return ps, nil
}

func (c *Client) GetTeam(ctx context.Context) ([]model.TeamMemberSummary, error) {
	var team []model.TeamMemberSummary
	if err := c.do(ctx, http.MethodGet, "/api/team", nil, http.StatusOK, &team); err != nil {
		return nil, err
	}
	if team == nil {
		team = []model.TeamMemberSummary{}
	}
	return team, nil
}

func (c *Client) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (model.ClientFeedback, error) {
	var fb model.ClientFeedback
	err := c.do(ctx, http.MethodPost, "/api/feedback/"+url.PathEscape(memberID), in, http.StatusCreated, &fb)
	return fb, err
}

func (c *Client) AwardKudos(ctx context.Context, memberID string) (model.KudosResult, error) {
	var r model.KudosResult
	err := c.do(ctx, http.MethodPost, "/api/kudos/"+url.PathEscape(memberID), nil, http.StatusOK, &r)
	return r, err
}

// Activity fetches up to limit recent activity events from the server feed.
func (c *Client) Activity(ctx context.Context, limit int) ([]activity.Event, error) {
	var events []activity.Event
	path := "/api/activity?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []activity.Event{}
	}
	return events, nil
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", c.newKey())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode != want {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, msg)
		case http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %s", repository.ErrStoreUnavailable, msg)
		default:
			return fmt.Errorf("%w: %s %s: status %d: %s", ErrTransport, method, path, resp.StatusCode, msg)
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}
