package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseSiteURL_Normalizes(t *testing.T) {
	u, err := parseSiteURL("example.edu/prompts?x=1#frag")
	if err != nil {
		t.Fatalf("parseSiteURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/prompts/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if _, err := parseSiteURL("   "); err == nil {
		t.Fatal("parseSiteURL accepted empty url")
	}
}

func TestClient_Configured(t *testing.T) {
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"", false},
		{"https://script.google.com/macros/s/XXXXXXXX/exec", false},
		{"https://script.google.com/macros/s/abc/exec", true},
	}
	for _, tt := range tests {
		c, err := NewClient("https://example.edu/", tt.endpoint)
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if got := c.Configured(); got != tt.want {
			t.Fatalf("Configured(%q) = %v, want %v", tt.endpoint, got, tt.want)
		}
	}
	var nilClient *Client
	if nilClient.Configured() {
		t.Fatal("nil client reported configured")
	}
}

func TestClient_FetchesSourcesAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var likeBody LikeRequest
	var gotCommunityT, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/site/data/faculty_prompts.json":
			_, _ = w.Write([]byte(`[{"id":1,"title_jp":"A","tags_jp":"x,y"}]`))
		case r.URL.Path == "/exec" && r.URL.Query().Get("action") == "getCommunity":
			gotCommunityT = r.URL.Query().Get("t")
			_, _ = w.Write([]byte(`{"shared":[{"id":"shared-1"}],"likes":{"faculty-1":3}}`))
		case r.URL.Path == "/exec" && r.URL.Query().Get("action") == "getLikes":
			_, _ = w.Write([]byte(`{"faculty-1":5}`))
		case r.URL.Path == "/exec" && r.URL.Query().Get("action") == "addLike":
			if r.Method != http.MethodPost {
				http.Error(w, "method", http.StatusMethodNotAllowed)
				return
			}
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &likeBody)
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/site", server.URL+"/exec")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	entries, err := c.FetchStatic(ctx, RoleFaculty)
	if err != nil {
		t.Fatalf("FetchStatic returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "1" || len(entries[0].TagsJP.Items()) != 2 {
		t.Fatalf("FetchStatic entries = %#v", entries)
	}

	community, err := c.FetchCommunity(ctx)
	if err != nil {
		t.Fatalf("FetchCommunity returned error: %v", err)
	}
	if len(community.Shared) != 1 || community.Request == nil || len(community.Request) != 0 {
		t.Fatalf("FetchCommunity = %#v, want defaults for absent fields", community)
	}
	if community.Likes["faculty-1"] != 3 {
		t.Fatalf("community likes = %#v", community.Likes)
	}
	if gotCommunityT != "1700000000000" {
		t.Fatalf("cache buster = %q", gotCommunityT)
	}

	likes, err := c.FetchLikes(ctx)
	if err != nil {
		t.Fatalf("FetchLikes returned error: %v", err)
	}
	if likes["faculty-1"] != 5 {
		t.Fatalf("FetchLikes = %#v", likes)
	}

	if err := c.RegisterLike(ctx, LikeRequest{ID: "faculty-1", Title: "A", Source: RoleFaculty}); err != nil {
		t.Fatalf("RegisterLike returned error: %v", err)
	}
	if likeBody.ID != "faculty-1" || likeBody.Title != "A" || likeBody.Source != RoleFaculty {
		t.Fatalf("like body = %#v", likeBody)
	}

	if !strings.HasPrefix(gotUserAgent, "promptdeck/") {
		t.Fatalf("User-Agent = %q, want promptdeck/*", gotUserAgent)
	}
}

func TestClient_UnconfiguredSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, server.URL+"/XXXXXXXX/exec")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()
	if _, err := c.FetchCommunity(ctx); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("FetchCommunity error = %v, want ErrUnconfigured", err)
	}
	if _, err := c.FetchLikes(ctx); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("FetchLikes error = %v, want ErrUnconfigured", err)
	}
	if err := c.RegisterLike(ctx, LikeRequest{ID: "x"}); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("RegisterLike error = %v, want ErrUnconfigured", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("server hit %d times, want 0", hits.Load())
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/faculty_prompts.json":
			_, _ = w.Write([]byte("{not-json"))
		case "/data/student_prompts.json":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchStatic(context.Background(), RoleFaculty)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchStatic(faculty) error = %v, want decode response error", err)
	}

	_, err = c.FetchStatic(context.Background(), RoleStudent)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchStatic(student) error = %v, want status 500 error", err)
	}

	if _, err := c.FetchStatic(context.Background(), RoleShared); err == nil {
		t.Fatal("FetchStatic(shared) returned nil error")
	}
}
