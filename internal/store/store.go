// Package store wraps the embedded ordered key-value store (go.etcd.io/bbolt)
// that backs the seven persistent indexes plus the vars counter bucket.
// It performs no locking of its own — the mutex inventory is owned by
// internal/pipeline.Coordinator, which bundles each lock next to the index it
// guards rather than hiding it inside this package.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru"
	bolt "go.etcd.io/bbolt"
)

// Bucket names, one per logical index. Kept short and stable.
var (
	bucketVars       = []byte("vars")
	bucketBlob       = []byte("blob")
	bucketHash       = []byte("hash")
	bucketFile       = []byte("file")
	bucketVers       = []byte("vers")
	bucketDefs       = []byte("defs")
	bucketRefs       = []byte("refs")
	bucketDocs       = []byte("docs")
	bucketComps      = []byte("comps")
	bucketCompsDocs  = []byte("comps_docs")
	numBlobsKey      = []byte("numBlobs")
	allBucketsCommon = [][]byte{bucketVars, bucketBlob, bucketHash, bucketFile, bucketVers, bucketDefs, bucketRefs, bucketDocs}
	allBucketsDT     = [][]byte{bucketComps, bucketCompsDocs}
)

// ErrNoIndexDir is returned by Open when dir doesn't already exist — a
// fresh invocation with a non-existent index directory is an error.
var ErrNoIndexDir = errors.New("store: index directory does not exist")

// ProbeDT reports whether an existing index directory already has
// device-tree support enabled, by checking for the comps bucket without
// creating anything. Used by read-only tools that must not flip an
// index's DT state just by opening it.
func ProbeDT(dir string) (bool, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrNoIndexDir, dir)
		}
		return false, err
	}

	dbPath := dir + "/index.db"
	db, err := bolt.Open(dbPath, 0o644, &bolt.Options{ReadOnly: true})
	if err != nil {
		return false, fmt.Errorf("store: probing %s: %w", dbPath, err)
	}
	defer db.Close()

	var dtEnabled bool
	err = db.View(func(tx *bolt.Tx) error {
		dtEnabled = tx.Bucket(bucketComps) != nil
		return nil
	})
	return dtEnabled, err
}

// Store is the on-disk key-value store behind all seven persistent
// indexes. Safe for concurrent use by multiple goroutines; bbolt itself
// serializes writers and allows concurrent readers.
type Store struct {
	db        *bolt.DB
	dtEnabled bool

	// blobMetaCache fronts the (hash, file) pair for an id: both are
	// write-once (immutable after creation), so a bounded LRU is a pure
	// win across the five worker pools that all resolve hash/file for
	// every new id.
	blobMetaCache *lru.Cache
}

// BlobMeta is the cached (hash, basename) pair for a blob id.
type BlobMeta struct {
	Hash     []byte
	Basename string
}

// Open opens (or, if create is true, creates) the bbolt-backed store at
// dbPath inside dir. dir must already exist unless create is set.
func Open(dir string, create bool, dtEnabled bool) (*Store, error) {
	if !create {
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrNoIndexDir, dir)
			}
			return nil, err
		}
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: creating index directory: %w", err)
		}
	}

	dbPath := dir + "/index.db"
	db, err := bolt.Open(dbPath, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", dbPath, err)
	}

	cache, err := lru.New(1 << 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating blob-meta cache: %w", err)
	}

	s := &Store{db: db, dtEnabled: dtEnabled, blobMetaCache: cache}
	if err := s.ensureBuckets(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBucketsCommon {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		if s.dtEnabled {
			for _, b := range allBucketsDT {
				if _, err := tx.CreateBucketIfNotExists(b); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DTEnabled reports whether the device-tree compatible-string feature
// (comps / comps_docs) is active for this store.
func (s *Store) DTEnabled() bool { return s.dtEnabled }

// Close flushes and closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---- vars ----

// NumBlobs returns the current value of the numBlobs counter, or 0 if
// unset (a brand-new index directory).
func (s *Store) NumBlobs() (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketVars).Get(numBlobsKey)
		if v == nil {
			return nil
		}
		n = binary.BigEndian.Uint64(v)
		return nil
	})
	return n, err
}

// SetNumBlobs persists the numBlobs counter.
func (s *Store) SetNumBlobs(n uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVars).Put(numBlobsKey, buf)
	})
}

// ---- blob: hash -> id ----

func idBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func idFromBytes(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// BlobExists reports whether hash has already been assigned an id.
func (s *Store) BlobExists(hash []byte) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(bucketBlob).Get(hash) != nil
		return nil
	})
	return exists, err
}

// BlobID returns the id assigned to hash.
func (s *Store) BlobID(hash []byte) (uint64, error) {
	var id uint64
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlob).Get(hash)
		if v != nil {
			id = idFromBytes(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("store: blob hash %x has no assigned id", hash)
	}
	return id, nil
}

// PutBlobID assigns id to hash.
func (s *Store) PutBlobID(hash []byte, id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlob).Put(hash, idBytes(id))
	})
}

// ---- hash/file: id -> hash, id -> basename ----

// PutHashAndFile records both halves of a newly assigned blob id in one
// transaction.
func (s *Store) PutHashAndFile(id uint64, hash []byte, basename string) error {
	key := idBytes(id)
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketHash).Put(key, hash); err != nil {
			return err
		}
		return tx.Bucket(bucketFile).Put(key, []byte(basename))
	})
	if err != nil {
		return err
	}
	s.blobMetaCache.Add(id, BlobMeta{Hash: append([]byte(nil), hash...), Basename: basename})
	return nil
}

// BlobMetaByID resolves the (hash, basename) pair for id, via cache where possible.
func (s *Store) BlobMetaByID(id uint64) (BlobMeta, error) {
	if v, ok := s.blobMetaCache.Get(id); ok {
		return v.(BlobMeta), nil
	}
	var meta BlobMeta
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		key := idBytes(id)
		h := tx.Bucket(bucketHash).Get(key)
		f := tx.Bucket(bucketFile).Get(key)
		if h == nil || f == nil {
			return nil
		}
		meta = BlobMeta{Hash: append([]byte(nil), h...), Basename: string(f)}
		found = true
		return nil
	})
	if err != nil {
		return BlobMeta{}, err
	}
	if !found {
		return BlobMeta{}, fmt.Errorf("store: no hash/file recorded for id %d", id)
	}
	s.blobMetaCache.Add(id, meta)
	return meta, nil
}

// ---- vers: tag -> PathList bytes ----

// TagExists reports whether tag has already been recorded in vers — the
// gate that makes re-indexing an already-present tag a no-op.
func (s *Store) TagExists(tag string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(bucketVers).Get([]byte(tag)) != nil
		return nil
	})
	return exists, err
}

// PutTagPathListSync writes vers[tag] with an fsync, making tag completion
// durable: this is the final commit for a tag.
func (s *Store) PutTagPathListSync(tag string, packed []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVers).Put([]byte(tag), packed)
	})
	if err != nil {
		return err
	}
	return s.db.Sync()
}

// ---- generic get/put for defs/refs/docs/comps/comps_docs, keyed by identifier ----

// GetRaw fetches the raw packed value for key in the named logical index,
// or nil if absent.
func (s *Store) GetRaw(bucketName string, key []byte) ([]byte, error) {
	b, err := s.bucketFor(bucketName)
	if err != nil {
		return nil, err
	}
	var v []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(b).Get(key)
		if raw != nil {
			v = append([]byte(nil), raw...)
		}
		return nil
	})
	return v, err
}

// Exists reports whether key is present in the named logical index.
func (s *Store) Exists(bucketName string, key []byte) (bool, error) {
	b, err := s.bucketFor(bucketName)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(b).Get(key) != nil
		return nil
	})
	return exists, err
}

// PutRaw writes the raw packed value for key in the named logical index.
func (s *Store) PutRaw(bucketName string, key, value []byte) error {
	b, err := s.bucketFor(bucketName)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b).Put(key, value)
	})
}

func (s *Store) bucketFor(name string) ([]byte, error) {
	switch name {
	case "defs":
		return bucketDefs, nil
	case "refs":
		return bucketRefs, nil
	case "docs":
		return bucketDocs, nil
	case "comps":
		if !s.dtEnabled {
			return nil, fmt.Errorf("store: comps bucket not enabled")
		}
		return bucketComps, nil
	case "comps_docs":
		if !s.dtEnabled {
			return nil, fmt.Errorf("store: comps_docs bucket not enabled")
		}
		return bucketCompsDocs, nil
	default:
		return nil, fmt.Errorf("store: unknown logical index %q", name)
	}
}
