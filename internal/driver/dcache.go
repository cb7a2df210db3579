package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest keys the disk cache: derived from file content hash, grammar name,
// and the active annotation tag set.
type Digest [32]byte

// DiskCache хранит сводки по файлам на диске, ключ — Digest содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached per-file summary.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path         string
	Grammar      string
	Entities     int
	Documented   int
	Orphans      int
	HasModuleDoc bool

	Annotations []CachedAnnotation
}

// CachedAnnotation mirrors AnnotationSummary for serialization.
type CachedAnnotation struct {
	Tag     string
	Message string
	Author  string
	Line    uint32
	Col     uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens a cache rooted at an explicit directory (tests).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey derives the digest for one file under the given scan options.
func CacheKey(contentHash [32]byte, gramName string, extraTags []string) Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write([]byte(gramName))
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	h.Write(schema[:])
	for _, t := range extraTags {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "files".
	return filepath.Join(c.dir, "files", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного rename файла уже нет, ошибка не важна
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A missing entry
// or a schema mismatch is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим в фоне
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// summaryToDiskPayload converts a Summary for caching.
func summaryToDiskPayload(sum *Summary) *DiskPayload {
	if sum == nil {
		return nil
	}
	payload := &DiskPayload{
		Schema:       diskCacheSchemaVersion,
		Path:         sum.Path,
		Grammar:      sum.Grammar,
		Entities:     sum.Entities,
		Documented:   sum.Documented,
		Orphans:      sum.Orphans,
		HasModuleDoc: sum.HasModuleDoc,
	}
	payload.Annotations = make([]CachedAnnotation, len(sum.Annotations))
	for i, a := range sum.Annotations {
		payload.Annotations[i] = CachedAnnotation(a)
	}
	return payload
}

// diskPayloadToSummary converts a cached payload back; path is taken from the
// current scan so renames do not resurrect stale locations.
func diskPayloadToSummary(payload *DiskPayload, path string) *Summary {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	sum := &Summary{
		Path:         path,
		Grammar:      payload.Grammar,
		Entities:     payload.Entities,
		Documented:   payload.Documented,
		Orphans:      payload.Orphans,
		HasModuleDoc: payload.HasModuleDoc,
	}
	sum.Annotations = make([]AnnotationSummary, len(payload.Annotations))
	for i, a := range payload.Annotations {
		sum.Annotations[i] = AnnotationSummary(a)
	}
	return sum
}
