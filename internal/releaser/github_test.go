package releaser

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/pkg/model"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc) *GitHubPublisher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")
	client.UploadURL, _ = client.UploadURL.Parse(server.URL + "/")
	return NewGitHubPublisher(client)
}

func TestGitHubPublisher_CreateRelease(t *testing.T) {
	var got github.RepositoryRelease
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/michaeljoseph/test_app/releases", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&github.RepositoryRelease{
			ID:         github.Ptr(int64(99)),
			TagName:    got.TagName,
			Name:       got.Name,
			Body:       got.Body,
			Prerelease: got.Prerelease,
			HTMLURL:    github.Ptr("https://github.com/michaeljoseph/test_app/releases/tag/0.1.0"),
		})
	})

	repo := model.RepoRef{Owner: "michaeljoseph", Name: "test_app"}
	decision := Classify(model.NewVersion(0, 0, 1), []model.ChangeRequest{change(11, "Add feature", "", "enhancement")})
	req := NewRequest(repo, decision, "abc123", "notes", Options{Prerelease: true})

	rel, err := p.CreateRelease(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "0.1.0", got.GetTagName())
	assert.Equal(t, "abc123", got.GetTargetCommitish())
	assert.True(t, got.GetPrerelease())
	assert.False(t, got.GetDraft())

	assert.Equal(t, int64(99), rel.ID)
	assert.Equal(t, "0.1.0", rel.TagName)
	assert.Equal(t, "notes", rel.Body)
	assert.Equal(t, repo, rel.Repo)
}

func TestGitHubPublisher_UploadAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_app-0.1.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive"), 0o600))

	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/michaeljoseph/test_app/releases/99/assets", r.URL.Path)
		assert.Equal(t, "test_app-0.1.0.tar.gz", r.URL.Query().Get("name"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "archive", string(body))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&github.ReleaseAsset{
			Name:               github.Ptr("test_app-0.1.0.tar.gz"),
			Size:               github.Ptr(7),
			BrowserDownloadURL: github.Ptr("https://example.com/test_app-0.1.0.tar.gz"),
		})
	})

	rel := &model.Release{ID: 99, Repo: model.RepoRef{Owner: "michaeljoseph", Name: "test_app"}}

	asset, err := p.UploadAsset(context.Background(), rel, path)

	require.NoError(t, err)
	assert.Equal(t, &model.Asset{
		Name:        "test_app-0.1.0.tar.gz",
		Path:        path,
		Size:        7,
		DownloadURL: "https://example.com/test_app-0.1.0.tar.gz",
	}, asset)
}

func TestGitHubPublisher_UploadAsset_MissingFile(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := p.UploadAsset(context.Background(), &model.Release{ID: 1}, filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRequest_Prefix(t *testing.T) {
	decision := model.ReleaseDecision{Next: model.NewVersion(2, 0, 0)}

	req := NewRequest(model.RepoRef{Owner: "o", Name: "r"}, decision, "", "", Options{Prefix: "v", Draft: true})

	assert.Equal(t, "v2.0.0", req.TagName)
	assert.Equal(t, "v2.0.0", req.Name)
	assert.True(t, req.Draft)
	assert.Empty(t, req.TargetCommitish)
}

func TestGitHubPublisher_TagExistsBypassesCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/michaeljoseph/test_app/tags", r.URL.Path)

		tags := []*github.RepositoryTag{{Name: github.Ptr("0.0.1")}}
		if atomic.AddInt32(&hits, 1) > 1 {
			tags = append(tags, &github.RepositoryTag{Name: github.Ptr("0.1.0")})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tags)
	}))
	t.Cleanup(server.Close)

	store, err := cache.New(cache.Config{MemoryOnly: true, TTL: time.Hour})
	require.NoError(t, err)

	client := github.NewClient(&http.Client{Transport: cache.NewTransport(store, nil)})
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")
	p := NewGitHubPublisher(client)

	repo := model.RepoRef{Owner: "michaeljoseph", Name: "test_app"}

	exists, err := p.TagExists(context.Background(), repo, "0.1.0")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = p.TagExists(context.Background(), repo, "0.1.0")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
