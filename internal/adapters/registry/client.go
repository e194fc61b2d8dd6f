// Package registry implements the Registry port against the HTTP index of a package registry.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rogpeppe/go-internal/lockedfile"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	indexPath         = "/api/v1/index/"
	httpClientTimeout = 30 * time.Second
)

var _ ports.Registry = (*Client)(nil)

// Client implements ports.Registry using the registry index API with a local cache.
type Client struct {
	home       string
	defaultURL string
	ttl        time.Duration
	offline    bool
	httpClient *http.Client
	logger     ports.Logger
	now        func() time.Time

	mu      sync.Mutex
	sources map[string]*source
}

// source is the state kept for one registry.
type source struct {
	url      string
	cacheDir string
	indexes  map[string]*indexResponse
}

// NewClient creates a new Client from the user settings.
func NewClient(settings *domain.Settings, logger ports.Logger) *Client {
	return &Client{
		home:       settings.Home,
		defaultURL: settings.RegistryURL,
		ttl:        settings.RegistryTTL,
		offline:    settings.Offline,
		httpClient: &http.Client{Timeout: httpClientTimeout},
		logger:     logger,
		now:        time.Now,
		sources:    make(map[string]*source),
	}
}

// LockPackageCache acquires the exclusive lock on the local registry state.
func (c *Client) LockPackageCache() (func(), error) {
	if err := os.MkdirAll(c.home, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageCacheLockFailed.Error()), "path", c.home)
	}

	path := domain.PackageCacheLockPath(c.home)
	unlock, err := lockedfile.MutexAt(path).Lock()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageCacheLockFailed.Error()), "path", path)
	}
	return unlock, nil
}

// IsYanked reports whether the registry withdrew the given package version.
func (c *Client) IsYanked(ctx context.Context, id domain.PackageID) (bool, error) {
	versions, err := c.Versions(ctx, id.Name, id.Source)
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v.Version == id.Version {
			return v.Yanked, nil
		}
	}

	notFound := zerr.With(domain.ErrRegistryPackageNotFound, "package", id.Name)
	return false, zerr.With(notFound, "version", id.Version)
}

// Versions lists every published version of name in the registry behind source.
// An empty source means the default registry.
func (c *Client) Versions(ctx context.Context, name, sourceID string) ([]domain.IndexVersion, error) {
	src := c.source(sourceID)

	c.mu.Lock()
	index, ok := src.indexes[name]
	c.mu.Unlock()

	if !ok {
		var err error
		index, err = c.fetchIndex(ctx, src, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		src.indexes[name] = index
		c.mu.Unlock()
	}

	return toDomain(index), nil
}

// source returns the state of the registry named by sourceID, creating it on first use.
func (c *Client) source(sourceID string) *source {
	registryURL := c.defaultURL
	if domain.IsRegistrySource(sourceID) {
		registryURL = domain.RegistryURL(sourceID)
	}
	registryURL = strings.TrimSuffix(registryURL, "/")

	c.mu.Lock()
	defer c.mu.Unlock()

	if src, ok := c.sources[registryURL]; ok {
		return src
	}
	src := &source{
		url:      registryURL,
		cacheDir: filepath.Join(domain.IndexCachePath(c.home), cacheDirName(registryURL)),
		indexes:  make(map[string]*indexResponse),
	}
	c.sources[registryURL] = src
	return src
}

// cacheDirName returns a directory name that is readable and unique per registry URL.
func cacheDirName(registryURL string) string {
	host := registryURL
	if u, err := url.Parse(registryURL); err == nil && u.Host != "" {
		host = u.Hostname()
	}
	sum := sha256.Sum256([]byte(registryURL))
	return host + "-" + hex.EncodeToString(sum[:8])
}

// getCachePath returns the file path for the cached index of name.
func (s *source) getCachePath(name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(s.cacheDir, hex.EncodeToString(sum[:])+".json")
}

func (c *Client) fetchIndex(ctx context.Context, src *source, name string) (*indexResponse, error) {
	cachePath := src.getCachePath(name)
	entry, err := loadFromCache(cachePath)
	if err == nil && (c.offline || c.now().Sub(entry.FetchedAt) < c.ttl) {
		c.logger.Debug(fmt.Sprintf("Using cached index of `%s` from %s", name, src.url))
		return &entry.Index, nil
	}

	if c.offline {
		offlineErr := zerr.With(domain.ErrRegistryOffline, "package", name)
		return nil, zerr.With(offlineErr, "registry", src.url)
	}

	c.logger.Debug(fmt.Sprintf("Updating index of `%s` from %s", name, src.url))
	index, err := c.queryIndex(ctx, src.url, name)
	if err != nil {
		return nil, err
	}

	fresh := cacheEntry{URL: src.url, FetchedAt: c.now(), Index: *index}
	if err := saveToCache(cachePath, &fresh); err != nil {
		c.logger.Debug(fmt.Sprintf("Could not cache index of `%s`: %v", name, err))
	}
	return index, nil
}

// queryIndex queries the registry index API for the versions of name.
func (c *Client) queryIndex(ctx context.Context, registryURL, name string) (*indexResponse, error) {
	endpoint := registryURL + indexPath + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "registry", registryURL)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode == http.StatusNotFound {
		notFound := zerr.With(domain.ErrRegistryPackageNotFound, "package", name)
		return nil, zerr.With(notFound, "registry", registryURL)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.ErrRegistryRequestFailed, "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "package", name)
		return nil, zerr.With(apiErr, "registry", registryURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}

	var index indexResponse
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryParseFailed.Error()), "package", name)
	}
	return &index, nil
}

func loadFromCache(path string) (*cacheEntry, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrRegistryCacheReadFailed
		}
		return nil, zerr.Wrap(err, domain.ErrRegistryCacheReadFailed.Error())
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryCacheReadFailed.Error())
	}
	return &entry, nil
}

func saveToCache(path string, entry *cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryCacheWriteFailed.Error())
	}
	if err := atomicWriteFile(path, data); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryCacheWriteFailed.Error())
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryCacheCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "index-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func toDomain(index *indexResponse) []domain.IndexVersion {
	out := make([]domain.IndexVersion, 0, len(index.Versions))
	for _, v := range index.Versions {
		iv := domain.IndexVersion{Version: v.Version, Yanked: v.Yanked}
		for _, d := range v.Dependencies {
			iv.Dependencies = append(iv.Dependencies, domain.Dependency{
				Name:            d.Name,
				Package:         d.Package,
				Kind:            domain.ParseDependencyKind(d.Kind),
				Source:          domain.SourceRegistry,
				Requirement:     d.Req,
				Registry:        d.Registry,
				DefaultFeatures: true,
			})
		}
		out = append(out, iv)
	}
	return out
}
