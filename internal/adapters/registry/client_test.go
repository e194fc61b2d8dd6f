package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/registry"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const zlibIndex = `{
  "name": "zlib",
  "versions": [
    {"version": "1.2.0", "yanked": false, "dependencies": [
      {"name": "crc", "req": "^0.3", "kind": "normal"},
      {"name": "bench", "req": "*", "kind": "dev"}
    ]},
    {"version": "1.3.0", "yanked": true, "dependencies": []}
  ]
}`

type server struct {
	*httptest.Server
	hits atomic.Int32
}

func newServer(t *testing.T) *server {
	t.Helper()

	s := &server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch r.URL.Path {
		case "/api/v1/index/zlib":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(zlibIndex))
		case "/api/v1/index/broken":
			_, _ = w.Write([]byte("{not json"))
		case "/api/v1/index/flaky":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newClient(t *testing.T, home, url string, offline bool) *registry.Client {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	return registry.NewClient(&domain.Settings{
		Home:        home,
		RegistryURL: url,
		RegistryTTL: 10 * time.Minute,
		Offline:     offline,
	}, log)
}

func TestClient_Versions(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c := newClient(t, t.TempDir(), srv.URL, false)

	versions, err := c.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)
	require.Len(t, versions, 2)

	assert.Equal(t, "1.2.0", versions[0].Version)
	assert.False(t, versions[0].Yanked)
	require.Len(t, versions[0].Dependencies, 2)
	assert.Equal(t, domain.Dependency{
		Name:            "crc",
		Kind:            domain.DependencyNormal,
		Source:          domain.SourceRegistry,
		Requirement:     "^0.3",
		DefaultFeatures: true,
	}, versions[0].Dependencies[0])
	assert.Equal(t, domain.DependencyDev, versions[0].Dependencies[1].Kind)
	assert.True(t, versions[1].Yanked)

	_, err = c.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "index is memoized per run")
}

func TestClient_Versions_RegistrySource(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c := newClient(t, t.TempDir(), "http://127.0.0.1:1", false)

	versions, err := c.Versions(context.Background(), "zlib", domain.RegistrySource(srv.URL+"/"))
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestClient_DiskCache(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	home := t.TempDir()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := newClient(t, home, srv.URL, false)
	first.SetClock(func() time.Time { return now })
	_, err := first.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)

	entries, err := filepath.Glob(filepath.Join(domain.IndexCachePath(home), "*", "*.json"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	fresh := newClient(t, home, srv.URL, false)
	fresh.SetClock(func() time.Time { return now.Add(5 * time.Minute) })
	_, err = fresh.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "fresh cache entry is reused")

	stale := newClient(t, home, srv.URL, false)
	stale.SetClock(func() time.Time { return now.Add(time.Hour) })
	_, err = stale.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load(), "stale cache entry is refreshed")
}

func TestClient_Offline(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	home := t.TempDir()

	online := newClient(t, home, srv.URL, false)
	_, err := online.Versions(context.Background(), "zlib", "")
	require.NoError(t, err)

	offline := newClient(t, home, srv.URL, true)
	offline.SetClock(func() time.Time { return time.Now().Add(24 * time.Hour) })
	versions, err := offline.Versions(context.Background(), "zlib", "")
	require.NoError(t, err, "offline mode uses stale cache entries")
	assert.Len(t, versions, 2)

	_, err = offline.Versions(context.Background(), "other", "")
	assert.ErrorContains(t, err, domain.ErrRegistryOffline.Error())
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c := newClient(t, t.TempDir(), srv.URL, false)

	tests := []struct {
		name    string
		pkg     string
		wantErr error
	}{
		{name: "not found", pkg: "missing", wantErr: domain.ErrRegistryPackageNotFound},
		{name: "server error", pkg: "flaky", wantErr: domain.ErrRegistryRequestFailed},
		{name: "malformed body", pkg: "broken", wantErr: domain.ErrRegistryParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := c.Versions(context.Background(), tt.pkg, "")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestClient_IsYanked(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c := newClient(t, t.TempDir(), srv.URL, false)
	src := domain.RegistrySource(srv.URL)

	yanked, err := c.IsYanked(context.Background(), domain.PackageID{Name: "zlib", Version: "1.3.0", Source: src})
	require.NoError(t, err)
	assert.True(t, yanked)

	yanked, err = c.IsYanked(context.Background(), domain.PackageID{Name: "zlib", Version: "1.2.0", Source: src})
	require.NoError(t, err)
	assert.False(t, yanked)

	_, err = c.IsYanked(context.Background(), domain.PackageID{Name: "zlib", Version: "9.9.9", Source: src})
	assert.ErrorContains(t, err, domain.ErrRegistryPackageNotFound.Error())
}

func TestClient_LockPackageCache(t *testing.T) {
	t.Parallel()

	home := filepath.Join(t.TempDir(), "home")
	c := newClient(t, home, "http://127.0.0.1:1", false)

	unlock, err := c.LockPackageCache()
	require.NoError(t, err)

	_, err = os.Stat(domain.PackageCacheLockPath(home))
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlockAgain, err := c.LockPackageCache()
		if err == nil {
			unlockAgain()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(100 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("lock not released")
	}
}
