package fs

import (
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// dirHash is the hash recorded for directories, whose content is irrelevant.
var dirHash = xxhash.Sum64(nil)

// Fingerprinter hashes directory trees so that modifications can be detected.
type Fingerprinter struct {
	walker *Walker
	limit  int
}

// NewFingerprinter creates a new Fingerprinter hashing up to GOMAXPROCS files at once.
func NewFingerprinter(walker *Walker) *Fingerprinter {
	return &Fingerprinter{walker: walker, limit: runtime.GOMAXPROCS(0)}
}

// ComputeFileHash computes the XXHash of a file's content.
func ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes every path under root except the build output directory directly below it.
func (f *Fingerprinter) Fingerprint(ctx context.Context, root string) (domain.Fingerprint, error) {
	var mu sync.Mutex
	result := make(domain.Fingerprint)
	record := func(path string, hash uint64) {
		mu.Lock()
		result[path] = hash
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)

	for entry, err := range f.walker.Walk(root, skipTargetDir) {
		if err != nil {
			_ = g.Wait()
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", root)
		}
		if gctx.Err() != nil {
			break
		}

		switch {
		case entry.IsDir():
			record(entry.Path, dirHash)
		case entry.IsSymlink():
			target, err := os.Readlink(entry.Path)
			if err != nil {
				_ = g.Wait()
				return nil, zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", entry.Path)
			}
			record(entry.Path, xxhash.Sum64String(target))
		default:
			path := entry.Path
			g.Go(func() error {
				hash, err := ComputeFileHash(path)
				if err != nil {
					return zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
				}
				record(path, hash)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrFingerprintFailed.Error())
	}
	return result, nil
}

func skipTargetDir(e Entry) bool {
	return e.Depth == 1 && e.IsDir() && e.Dir.Name() == domain.TargetDirName
}
