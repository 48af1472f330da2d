package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/btreego/blobstore"
	"github.com/hupe1980/btreego/codec"
	"github.com/hupe1980/btreego/manifest"
	"github.com/hupe1980/btreego/resource"
)

var (
	// ErrManagerClosed is returned by operations on a closed Manager.
	ErrManagerClosed = errors.New("persistence: manager is closed")

	// ErrNoStore indicates ManagerOptions without a blob store.
	ErrNoStore = errors.New("persistence: blob store not configured")
)

// blobSuffix is the file extension of snapshot blobs.
const blobSuffix = ".bpt"

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	// Store holds snapshot blobs and manifests. Required.
	Store blobstore.BlobStore

	// Codec encodes snapshot payloads. Nil means codec.Default.
	Codec codec.Codec

	// Compression is applied to snapshot payloads.
	Compression Compression

	// Controller bounds the memory, background concurrency, and IO
	// throughput of saves and loads. Nil means no limits.
	Controller *resource.Controller
}

// Manager saves and loads whole catalogs. Each save writes one snapshot
// blob per table and commits the set as the next manifest version, so a
// load always observes a consistent catalog even when a save is running
// concurrently. Tables are written and read in parallel.
type Manager struct {
	store     blobstore.BlobStore
	manifests *manifest.Store
	codec     codec.Codec
	compress  Compression
	rc        *resource.Controller

	saveMu sync.Mutex // serializes commits within the process
	closed atomic.Bool
}

// NewManager creates a Manager on top of the configured blob store.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	return &Manager{
		store:     opts.Store,
		manifests: manifest.NewStore(opts.Store),
		codec:     c,
		compress:  opts.Compression,
		rc:        opts.Controller,
	}, nil
}

// Manifests exposes the underlying manifest store for inspection.
func (m *Manager) Manifests() *manifest.Store {
	return m.manifests
}

// Close marks the manager closed. Further operations fail with
// ErrManagerClosed.
func (m *Manager) Close() error {
	m.closed.Store(true)
	return nil
}

// BlobName returns the blob name of a table snapshot at a version, for
// example "users-000003.bpt".
func BlobName(table string, version uint64) string {
	return fmt.Sprintf("%s-%06d%s", table, version, blobSuffix)
}

// blobVersion extracts the version from a snapshot blob name. Table
// names may themselves contain dashes, so the version is parsed from
// the end.
func blobVersion(name string) (uint64, bool) {
	base, ok := strings.CutSuffix(name, blobSuffix)
	if !ok {
		return 0, false
	}
	idx := strings.LastIndexByte(base, '-')
	if idx < 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(base[idx+1:], 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// Save writes one blob per snapshot and commits the set as the next
// catalog version. It returns the committed manifest.
//
// Saves are serialized within the process. Across processes the commit
// either wins or fails with the backend's conflict error; blobs written
// by a failed commit stay unreferenced until Prune collects them.
func (m *Manager) Save(ctx context.Context, snaps []*Snapshot) (*manifest.Manifest, error) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	cur, err := m.manifests.CurrentID(ctx)
	if err != nil {
		return nil, err
	}
	version := cur + 1

	infos := make([]manifest.TableInfo, len(snaps))
	g, gctx := errgroup.WithContext(ctx)
	for i, snap := range snaps {
		g.Go(func() error {
			if err := m.rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer m.rc.ReleaseBackground()

			info, err := m.saveSnapshot(gctx, snap, version)
			if err != nil {
				return fmt.Errorf("save table %q: %w", snap.Table, err)
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	man := &manifest.Manifest{ID: version, Tables: infos}
	if err := m.manifests.Commit(ctx, man); err != nil {
		return nil, err
	}
	return man, nil
}

func (m *Manager) saveSnapshot(ctx context.Context, snap *Snapshot, version uint64) (manifest.TableInfo, error) {
	name := BlobName(snap.Table, version)
	w, err := m.store.Create(ctx, name)
	if err != nil {
		return manifest.TableInfo{}, err
	}

	dst := resource.NewRateLimitedWriter(ctx, w, m.rc)
	written, sum, err := Encode(dst, snap, EncodeOptions{Codec: m.codec, Compression: m.compress})
	if err != nil {
		// The WritableBlob interface offers no abort, so finalize the
		// half-written blob and delete it. Cleanup must survive group
		// cancellation.
		_ = w.Close()
		_ = m.store.Delete(context.WithoutCancel(ctx), name)
		return manifest.TableInfo{}, err
	}
	if err := w.Close(); err != nil {
		return manifest.TableInfo{}, fmt.Errorf("finalize blob %s: %w", name, err)
	}

	return manifest.TableInfo{
		Name:     snap.Table,
		Order:    snap.Order,
		Keys:     len(snap.Items),
		Path:     name,
		Bytes:    written,
		Checksum: sum,
	}, nil
}

// Load reads the current catalog version and returns its snapshots in
// manifest order together with the manifest itself. When nothing has
// been committed yet it returns no snapshots and a manifest with ID 0.
func (m *Manager) Load(ctx context.Context) ([]*Snapshot, *manifest.Manifest, error) {
	if m.closed.Load() {
		return nil, nil, ErrManagerClosed
	}

	man, err := m.manifests.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if man.ID == 0 {
		return nil, man, nil
	}

	snaps := make([]*Snapshot, len(man.Tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, info := range man.Tables {
		g.Go(func() error {
			if err := m.rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer m.rc.ReleaseBackground()

			snap, err := m.loadSnapshot(gctx, info)
			if err != nil {
				return fmt.Errorf("load table %q: %w", info.Name, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return snaps, man, nil
}

func (m *Manager) loadSnapshot(ctx context.Context, info manifest.TableInfo) (*Snapshot, error) {
	blob, err := m.store.Open(ctx, info.Path)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	size := blob.Size()
	if info.Bytes > 0 && size != info.Bytes {
		return nil, fmt.Errorf("blob %s: size %d does not match manifest %d", info.Path, size, info.Bytes)
	}

	// Reserve the buffer before materializing the blob.
	if err := m.rc.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}
	defer m.rc.ReleaseMemory(size)

	rr, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	_, err = io.ReadFull(resource.NewRateLimitedReader(ctx, rr, m.rc), data)
	rr.Close()
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", info.Path, err)
	}

	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if info.Checksum != 0 && hdr.Checksum != info.Checksum {
		return nil, &ChecksumMismatchError{Expected: info.Checksum, Actual: hdr.Checksum}
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if snap.Table != info.Name {
		return nil, fmt.Errorf("blob %s: contains table %q, manifest says %q", info.Path, snap.Table, info.Name)
	}
	return snap, nil
}

// Prune deletes snapshot blobs not referenced by any retained manifest
// and manifest files older than the retention window. keepManifests is
// the number of most recent versions to retain, at least 1. Blobs and
// manifests newer than the current version belong to an in-flight save
// and are left alone. Prune returns the number of blobs removed.
func (m *Manager) Prune(ctx context.Context, keepManifests int) (int, error) {
	if m.closed.Load() {
		return 0, ErrManagerClosed
	}
	if keepManifests < 1 {
		keepManifests = 1
	}

	man, err := m.manifests.Load(ctx)
	if err != nil {
		return 0, err
	}
	if man.ID == 0 {
		return 0, nil
	}

	minKeep := uint64(1)
	if man.ID >= uint64(keepManifests) {
		minKeep = man.ID - uint64(keepManifests) + 1
	}

	// Union of blobs referenced by every retained manifest.
	referenced := make(map[string]struct{})
	ids, err := m.manifests.Versions(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if id < minKeep || id > man.ID {
			continue
		}
		mm, err := m.manifests.Read(ctx, manifest.Name(id))
		if err != nil {
			return 0, err
		}
		for _, t := range mm.Tables {
			referenced[t.Path] = struct{}{}
		}
	}

	names, err := m.store.List(ctx, "")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		switch {
		case name == manifest.CurrentFile:
			continue
		case strings.HasPrefix(name, manifest.FilePrefix+"-"):
			id, err := manifest.ParseID(name)
			if err != nil || id >= minKeep {
				continue
			}
		case strings.HasSuffix(name, blobSuffix):
			if _, ok := referenced[name]; ok {
				continue
			}
			if v, ok := blobVersion(name); !ok || v > man.ID {
				continue
			}
		default:
			continue
		}
		if err := m.store.Delete(ctx, name); err != nil {
			return removed, fmt.Errorf("prune %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
