// Package store keeps extracted audio files on disk, keyed by source URL,
// and evicts them once they outlive a TTL.
package store

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// keyLen is how many hex digits of the URL digest end up in file names.
	keyLen        = 12
	sweepInterval = 5 * time.Minute
)

// Entry describes one stored audio file.
type Entry struct {
	Name   string
	Path   string
	SizeMB float64
}

// Store is a URL-keyed audio file store with TTL eviction.
type Store struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// New creates the backing directory if needed.
func New(dir string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio store directory %s: %w", dir, err)
	}

	return &Store{dir: dir, ttl: ttl, logger: logger}, nil
}

// Put moves src into the store under a name built from src's base name and
// the URL digest, replacing any previous entry for the URL.
func (s *Store) Put(rawURL, src string) (Entry, error) {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := fmt.Sprintf("%s_%s.mp3", base, urlKey(rawURL))

	if err := moveFile(src, filepath.Join(s.dir, name)); err != nil {
		return Entry{}, fmt.Errorf("failed to store audio file %s: %w", name, err)
	}

	return s.entry(name)
}

// Lookup finds the stored entry for a URL.
func (s *Store) Lookup(rawURL string) (Entry, bool) {
	suffix := "_" + urlKey(rawURL) + ".mp3"

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return Entry{}, false
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), suffix) {
			continue
		}
		entry, err := s.entry(f.Name())
		if err != nil {
			return Entry{}, false
		}
		return entry, true
	}

	return Entry{}, false
}

// Resolve validates a client-supplied file name and returns its entry. Names
// carrying path separators or a non-mp3 extension are rejected before any
// filesystem access.
func (s *Store) Resolve(name string) (Entry, error) {
	if name == "" || name != filepath.Base(name) || filepath.Ext(name) != ".mp3" {
		return Entry{}, fmt.Errorf("invalid audio file name %q", name)
	}

	return s.entry(name)
}

// StartJanitor begins background eviction of entries older than the TTL.
// Call at most once.
func (s *Store) StartJanitor() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit. Safe to call when the
// janitor never started.
func (s *Store) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
}

func (s *Store) entry(name string) (Entry, error) {
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:   name,
		Path:   path,
		SizeMB: float64(info.Size()) / (1024 * 1024),
	}, nil
}

// sweep removes mp3 files older than the TTL.
func (s *Store) sweep() {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("Audio store sweep failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-s.ttl)
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".mp3" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, f.Name())); err != nil {
			s.logger.Error("Failed to remove expired audio", "name", f.Name(), "error", err)
			continue
		}
		s.logger.Debug("Removed expired audio", "name", f.Name())
	}
}

// urlKey returns the short digest that ties a file name to its source URL.
func urlKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:keyLen]
}

// moveFile renames src into place, falling back to a copy when the rename
// crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
