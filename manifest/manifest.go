// Package manifest tracks which snapshot blobs make up a committed
// catalog version.
//
// Every save writes one immutable manifest file, MANIFEST-000042.json,
// listing the snapshot blob of each table, and then points the CURRENT
// file at it. CURRENT holds nothing but the manifest file name, so a
// commit is a single small atomic write and older versions stay
// readable until pruned. Blob store backends may intercept CURRENT
// writes to turn that pointer update into a compare-and-set (see
// blobstore/s3.DDBCommitStore).
package manifest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/btreego/blobstore"
)

const (
	// FilePrefix is the common prefix of manifest file names.
	FilePrefix = "MANIFEST"

	// CurrentFile is the pointer blob naming the current manifest.
	CurrentFile = "CURRENT"

	// FormatVersion is the manifest JSON format version.
	FormatVersion = 1
)

// ErrConcurrentCommit is returned when another writer committed the same
// version first.
var ErrConcurrentCommit = errors.New("manifest: concurrent commit")

// TableInfo describes one table snapshot referenced by a manifest.
type TableInfo struct {
	// Name is the table name.
	Name string `json:"name"`

	// Order is the tree order the table was created with.
	Order int `json:"order"`

	// Keys is the number of stored pairs at save time.
	Keys int `json:"keys"`

	// Path is the snapshot blob name.
	Path string `json:"path"`

	// Bytes is the size of the snapshot blob.
	Bytes int64 `json:"bytes"`

	// Checksum is the CRC32 trailer of the snapshot blob.
	Checksum uint32 `json:"checksum"`
}

// Manifest is one committed catalog version.
type Manifest struct {
	Format    int         `json:"format"`
	ID        uint64      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Tables    []TableInfo `json:"tables"`
}

// Table returns the entry for the named table.
func (m *Manifest) Table(name string) (TableInfo, bool) {
	for _, t := range m.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableInfo{}, false
}

// Name returns the manifest file name for a version.
func Name(id uint64) string {
	return fmt.Sprintf("%s-%06d.json", FilePrefix, id)
}

// ParseID extracts the version from a manifest file name.
func ParseID(name string) (uint64, error) {
	base := strings.TrimPrefix(name, FilePrefix+"-")
	if base == name {
		return 0, fmt.Errorf("manifest: malformed name %q", name)
	}
	base, ok := strings.CutSuffix(base, ".json")
	if !ok {
		return 0, fmt.Errorf("manifest: malformed name %q", name)
	}
	id, err := strconv.ParseUint(base, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("manifest: malformed name %q", name)
	}
	return id, nil
}

// conditionalPutter is the optional backend capability used to write
// manifest files race-free.
type conditionalPutter interface {
	PutIfNotExists(ctx context.Context, name string, data []byte) error
}

// Store reads and commits manifests in a blob store.
type Store struct {
	store blobstore.BlobStore
	mu    sync.Mutex
}

// NewStore creates a manifest store on top of store.
func NewStore(store blobstore.BlobStore) *Store {
	return &Store{store: store}
}

// CurrentID returns the committed version, or 0 when nothing has been
// committed yet.
func (s *Store) CurrentID(ctx context.Context) (uint64, error) {
	data, err := blobstore.ReadAll(ctx, s.store, CurrentFile)
	if errors.Is(err, blobstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("manifest: read %s: %w", CurrentFile, err)
	}
	return ParseID(strings.TrimSpace(string(data)))
}

// Load returns the current manifest. When nothing has been committed it
// returns an empty manifest with ID 0 and no error.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.store, CurrentFile)
	if errors.Is(err, blobstore.ErrNotFound) {
		return &Manifest{Format: FormatVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", CurrentFile, err)
	}
	return s.Read(ctx, strings.TrimSpace(string(data)))
}

// Read returns the manifest stored under the given file name.
func (s *Store) Read(ctx context.Context, name string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.store, name)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", name, err)
	}
	var m Manifest
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", name, err)
	}
	if m.Format != FormatVersion {
		return nil, fmt.Errorf("manifest: %s: unsupported format %d", name, m.Format)
	}
	return &m, nil
}

// Commit writes m as an immutable manifest file and repoints CURRENT at
// it. The caller must have set m.ID to the version it is claiming,
// normally CurrentID+1. Commit fills in Format and CreatedAt.
//
// On backends with conditional writes, committing a version that
// already exists fails with ErrConcurrentCommit and the pointer is left
// untouched. On plain backends the CURRENT update is last-writer-wins
// across processes; within a process commits are serialized.
func (s *Store) Commit(ctx context.Context, m *Manifest) error {
	if m.ID == 0 {
		return errors.New("manifest: commit requires a version")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Format = FormatVersion
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	data, err := gojson.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode version %d: %w", m.ID, err)
	}

	name := Name(m.ID)
	if cp, ok := s.store.(conditionalPutter); ok {
		if err := cp.PutIfNotExists(ctx, name, data); err != nil {
			if errors.Is(err, blobstore.ErrConflict) {
				return fmt.Errorf("version %d already committed: %w", m.ID, ErrConcurrentCommit)
			}
			return fmt.Errorf("manifest: write %s: %w", name, err)
		}
	} else if err := s.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("manifest: write %s: %w", name, err)
	}

	if err := s.store.Put(ctx, CurrentFile, []byte(name)); err != nil {
		// The manifest file is orphaned but harmless; Prune collects it.
		return fmt.Errorf("manifest: update %s: %w", CurrentFile, err)
	}
	return nil
}

// Versions lists all committed manifest versions in ascending order,
// including ones no longer pointed at by CURRENT.
func (s *Store) Versions(ctx context.Context) ([]uint64, error) {
	names, err := s.store.List(ctx, FilePrefix+"-")
	if err != nil {
		return nil, fmt.Errorf("manifest: list versions: %w", err)
	}
	ids := make([]uint64, 0, len(names))
	for _, n := range names {
		id, err := ParseID(n)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Delete removes the manifest file for a version. The current version
// cannot be deleted.
func (s *Store) Delete(ctx context.Context, id uint64) error {
	cur, err := s.CurrentID(ctx)
	if err != nil {
		return err
	}
	if id == cur {
		return fmt.Errorf("manifest: version %d is current", id)
	}
	return s.store.Delete(ctx, Name(id))
}
