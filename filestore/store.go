package filestore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/nishp77/thenewboston-node/log"
)

// ErrArtifactMismatch is returned when an artifact being published already
// exists with different content.
var ErrArtifactMismatch = errors.New("existing artifact content mismatch")

// Store persists artifacts under a filesystem root using the addressing
// scheme of this package. Writes are atomic: content goes to a temporary
// file in the target directory, is synced, and is renamed into place, so a
// reader never observes a partially written artifact.
type Store struct {
	root string
}

// NewStore opens (creating if needed) a store rooted at the given
// directory.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the filesystem root the store was opened at.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) absolute(artifactPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(artifactPath))
}

// Has reports whether the artifact exists.
func (s *Store) Has(artifactPath string) bool {
	info, err := os.Stat(s.absolute(artifactPath))
	return err == nil && !info.IsDir()
}

// Read returns the full content of the artifact.
func (s *Store) Read(artifactPath string) ([]byte, error) {
	return os.ReadFile(s.absolute(artifactPath))
}

// Write atomically publishes the artifact, replacing any previous content.
func (s *Store) Write(artifactPath string, data []byte) error {
	target := s.absolute(artifactPath)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// WriteIfAbsent publishes the artifact unless it already exists, and
// reports whether a write happened. An existing artifact with different
// content is an integrity failure, not something to overwrite.
func (s *Store) WriteIfAbsent(artifactPath string, data []byte) (bool, error) {
	if s.Has(artifactPath) {
		existing, err := s.Read(artifactPath)
		if err != nil {
			return false, err
		}
		if !bytes.Equal(existing, data) {
			return false, ErrArtifactMismatch
		}
		return false, nil
	}
	return true, s.Write(artifactPath, data)
}

// ScanFileNumbers walks the kind's directory tree and returns the sorted
// file numbers of every well addressed artifact. Files the addressing
// scheme cannot decode (such as leftovers of interrupted writes) are
// skipped with a warning.
func (s *Store) ScanFileNumbers(kind ArtifactKind) ([]int64, error) {
	base := filepath.Join(s.root, kind.subdirectory())
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}
	var numbers []int64
	err := filepath.Walk(base, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, walkPath)
		if err != nil {
			return err
		}
		fileNumber, decodedKind, err := DecodePath(filepath.ToSlash(rel))
		if err != nil || decodedKind != kind {
			log.Warn("ignoring unrecognized file in artifact tree", "path", rel)
			return nil
		}
		numbers = append(numbers, fileNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, nil
}
