package catalog

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
)

// PlaceholderToken marks an endpoint that was never filled in.
const PlaceholderToken = "XXXXXXXX"

// ErrUnconfigured is returned by every live call when the endpoint is missing
// or still carries PlaceholderToken.
var ErrUnconfigured = errors.New("community endpoint not configured")

// Fetcher defines the remote operations the sync engine depends on.
// This interface is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchStatic(ctx context.Context, role Role) ([]Entry, error)
	FetchCommunity(ctx context.Context) (Community, error)
	FetchLikes(ctx context.Context) (Likes, error)
	RegisterLike(ctx context.Context, req LikeRequest) error
	Configured() bool
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the static site and the community endpoint.
type Client struct {
	siteURL   *url.URL
	endpoint  string
	http      *http.Client
	userAgent string
	now       func() time.Time
}

const (
	defaultUserAgent = "promptdeck/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client. siteURL is the base the static catalogs live
// under; endpoint is the community web app URL and may be a placeholder.
func NewClient(siteURL, endpoint string) (*Client, error) {
	base, err := parseSiteURL(siteURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		siteURL:  base,
		endpoint: strings.TrimSpace(endpoint),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		now:       time.Now,
	}, nil
}

// Configured reports whether live community calls may be issued.
func (c *Client) Configured() bool {
	if c == nil {
		return false
	}
	return c.endpoint != "" && !strings.Contains(c.endpoint, PlaceholderToken)
}

// FetchStatic retrieves data/{role}_prompts.json.
func (c *Client) FetchStatic(ctx context.Context, role Role) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if !role.Static() {
		return nil, fmt.Errorf("role %q has no static catalog", role)
	}
	rel := &url.URL{Path: "data/" + string(role) + "_prompts.json"}
	var entries []Entry
	if err := c.get(ctx, c.siteURL.ResolveReference(rel), &entries); err != nil {
		return nil, fmt.Errorf("fetch %s catalog: %w", role, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// FetchCommunity retrieves shared entries, requests and the likes map in one call.
// Absent fields decode as empty values.
func (c *Client) FetchCommunity(ctx context.Context) (Community, error) {
	if !c.Configured() {
		return Community{}, ErrUnconfigured
	}
	u, err := c.actionURL("getCommunity", true)
	if err != nil {
		return Community{}, err
	}
	var payload Community
	if err := c.get(ctx, u, &payload); err != nil {
		return Community{}, fmt.Errorf("fetch community: %w", err)
	}
	if payload.Shared == nil {
		payload.Shared = []Entry{}
	}
	if payload.Request == nil {
		payload.Request = []Entry{}
	}
	if payload.Likes == nil {
		payload.Likes = Likes{}
	}
	return payload, nil
}

// FetchLikes retrieves only the likes map.
func (c *Client) FetchLikes(ctx context.Context) (Likes, error) {
	if !c.Configured() {
		return nil, ErrUnconfigured
	}
	u, err := c.actionURL("getLikes", true)
	if err != nil {
		return nil, err
	}
	var likes Likes
	if err := c.get(ctx, u, &likes); err != nil {
		return nil, fmt.Errorf("fetch likes: %w", err)
	}
	if likes == nil {
		likes = Likes{}
	}
	return likes, nil
}

// RegisterLike posts a single like. The response body is drained and ignored.
func (c *Client) RegisterLike(ctx context.Context, like LikeRequest) error {
	if !c.Configured() {
		return ErrUnconfigured
	}
	u, err := c.actionURL("addLike", false)
	if err != nil {
		return err
	}
	body, err := json.Marshal(like)
	if err != nil {
		return fmt.Errorf("encode like: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("addLike returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) actionURL(action string, bust bool) (*url.URL, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	values := u.Query()
	values.Set("action", action)
	if bust {
		values.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	u.RawQuery = values.Encode()
	return u, nil
}

func (c *Client) get(ctx context.Context, u *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", u.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseSiteURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("site url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse site url %q: %w", raw, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
