package store

import bolt "go.etcd.io/bbolt"

// allLogicalBuckets names every bucket Walk can iterate, including the ones
// GetRaw/PutRaw don't cover (vars, blob, hash, file, vers).
func (s *Store) allLogicalBuckets() map[string][]byte {
	m := map[string][]byte{
		"vars": bucketVars,
		"blob": bucketBlob,
		"hash": bucketHash,
		"file": bucketFile,
		"vers": bucketVers,
		"defs": bucketDefs,
		"refs": bucketRefs,
		"docs": bucketDocs,
	}
	if s.dtEnabled {
		m["comps"] = bucketComps
		m["comps_docs"] = bucketCompsDocs
	}
	return m
}

// Walk calls fn for every (key, value) pair in the named logical index, in
// key order (bbolt buckets are ordered B-trees). Used by the integrity
// checker (cmd/xref-verify) to re-derive cross-index invariants without
// needing a read-side query layer.
func (s *Store) Walk(bucketName string, fn func(k, v []byte) error) error {
	b, ok := s.allLogicalBuckets()[bucketName]
	if !ok {
		return s.db.View(func(tx *bolt.Tx) error { return nil })
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(b).ForEach(fn)
	})
}
