package filecache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain/repository"
)

const (
	listingPagePrefix = "page"
	fileExt           = ".json"
)

// Store is a directory of immutable JSON documents, one per fetched response.
// Listing pages are named page_<seq>.json; hashed documents are named
// <prefix>_<md5>.json.
type Store struct {
	dir    string
	logger *zap.Logger
}

var _ repository.PageCacheRepository = (*Store)(nil)

func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %q: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Open returns a Store over an existing directory without creating it. A
// missing directory is not an error here; listing it yields zero pages.
func Open(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

func (s *Store) listingPagePath(page int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%04d%s", listingPagePrefix, page, fileExt))
}

func (s *Store) WriteListingPage(page int, doc interface{}) error {
	return s.writeJSON(s.listingPagePath(page), doc)
}

func (s *Store) ReadListingPage(page int) ([]byte, error) {
	return s.readIfExists(s.listingPagePath(page))
}

// ListListingPages enumerates cached listing pages sorted by name. Zero-padded
// sequence numbers make lexicographic order match fetch order, which keeps
// point ordering reproducible across runs.
func (s *Store) ListListingPages() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache dir %q: %w", s.dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, listingPagePrefix+"_") && strings.HasSuffix(name, fileExt) {
			paths = append(paths, filepath.Join(s.dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// HashKey derives a short deterministic cache key from a query payload.
func (s *Store) HashKey(obj interface{}) string {
	payload, err := json.Marshal(obj)
	if err != nil {
		payload = []byte(fmt.Sprint(obj))
	}
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

func (s *Store) WriteHashed(prefix, key string, doc interface{}) error {
	return s.writeJSON(filepath.Join(s.dir, prefix+"_"+key+fileExt), doc)
}

func (s *Store) ReadHashed(prefix, key string) ([]byte, error) {
	return s.readIfExists(filepath.Join(s.dir, prefix+"_"+key+fileExt))
}

func (s *Store) writeJSON(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %q: %w", path, err)
	}
	s.logger.Debug("cache document written",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) readIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("cache miss", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache file %q: %w", path, err)
	}
	s.logger.Debug("cache hit", zap.String("path", path), zap.Int("bytes", len(data)))
	return data, nil
}
