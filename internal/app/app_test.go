package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/state"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/faculty_prompts.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id": 1, "title_jp": "シラバス作成", "category": "lesson", "prompt_jp": "書いて"},
			{"id": "faculty-2", "title_jp": "論文要約", "category": "research"}
		]`)
	})
	mux.HandleFunc("/data/student_prompts.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "getCommunity" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{
			"shared": [{"id": "s1", "title_jp": "共有", "position": "教授"}],
			"request": [],
			"likes": {"faculty-1": 4, "s1": "2"}
		}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_DumpPrintsProjections(t *testing.T) {
	srv := catalogServer(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
site_url = %q
endpoint = %q
log_dir = %q
`, srv.URL+"/", srv.URL+"/exec", filepath.Join(dir, "logs")))

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Dump:       true,
		Out:        &out,
		Stderr:     io.Discard,
	})
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, catalog.RoleFaculty, got.Role)
	assert.Equal(t, "jp", got.Lang)
	assert.Equal(t, 6, got.GlobalLikes)
	assert.Equal(t, 4, got.TabLikes)
	assert.Equal(t, 2, got.RoleCounts[catalog.RoleFaculty])
	assert.Equal(t, 0, got.RoleCounts[catalog.RoleStudent])
	assert.Equal(t, 1, got.RoleCounts[catalog.RoleShared])
	assert.False(t, got.Offline)

	require.Len(t, got.Visible, 2)
	assert.Equal(t, catalog.Text("faculty-1"), got.Visible[0].ID)
	assert.Equal(t, 4, got.Visible[0].Likes)
	assert.Equal(t, catalog.Text("faculty-2"), got.Visible[1].ID)
	assert.Equal(t, 0, got.Visible[1].Likes)

	require.Len(t, got.Charts, 2)
	assert.Equal(t, "categories", got.Charts[0].ID)
	assert.Equal(t, "ranking", got.Charts[1].ID)
}

func TestRun_DumpWithBoltPrefs(t *testing.T) {
	srv := catalogServer(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
site_url = %q
log_dir = %q
prefs_backend = "bolt"
prefs_path = %q
`, srv.URL+"/", filepath.Join(dir, "logs"), filepath.Join(dir, "prefs.db")))

	var out bytes.Buffer
	err := Run(context.Background(), Options{ConfigPath: cfgPath, Dump: true, Out: &out, Stderr: io.Discard})
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	// community endpoint is the placeholder, so only static data arrives
	assert.Equal(t, 0, got.GlobalLikes)
	assert.Equal(t, 0, got.RoleCounts[catalog.RoleShared])
	assert.Len(t, got.Visible, 2)

	_, err = os.Stat(filepath.Join(dir, "prefs.db"))
	assert.NoError(t, err)
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "poll_seconds = \"soon\"\n")

	err := Run(context.Background(), Options{ConfigPath: cfgPath, Dump: true, Out: io.Discard, Stderr: io.Discard})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load config:"), err.Error())
}

func TestRun_UnknownPrefsBackend(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf("log_dir = %q\nprefs_backend = \"redis\"\n", filepath.Join(dir, "logs")))

	err := Run(context.Background(), Options{ConfigPath: cfgPath, Dump: true, Out: io.Discard, Stderr: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open preferences")
}

func TestSummarize_OmitsEntriesUnlessAsked(t *testing.T) {
	store := state.NewStore(state.DefaultView())
	store.Replace(map[catalog.Role][]catalog.Entry{
		catalog.RoleFaculty: {{ID: "faculty-1", TitleJP: "A"}},
	}, catalog.Likes{"faculty-1": 2})

	snap := store.Snapshot()
	assert.Empty(t, Summarize(snap, category.Default(), false).Visible)

	s := Summarize(snap, category.Default(), true)
	require.Len(t, s.Visible, 1)
	assert.Equal(t, 2, s.GlobalLikes)
	assert.NotNil(t, s.LastLoaded)
}
