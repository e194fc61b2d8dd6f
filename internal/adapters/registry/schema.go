package registry

import "time"

// indexResponse is the body of GET <registry>/api/v1/index/<name>.
type indexResponse struct {
	Name     string         `json:"name"`
	Versions []indexVersion `json:"versions"`
}

type indexVersion struct {
	Version      string            `json:"version"`
	Yanked       bool              `json:"yanked"`
	Dependencies []indexDependency `json:"dependencies"`
}

type indexDependency struct {
	Name     string `json:"name"`
	Package  string `json:"package,omitempty"`
	Req      string `json:"req"`
	Kind     string `json:"kind"`
	Registry string `json:"registry,omitempty"`
}

// cacheEntry is an index response stored on disk.
type cacheEntry struct {
	URL       string        `json:"url"`
	FetchedAt time.Time     `json:"fetched_at"`
	Index     indexResponse `json:"index"`
}
