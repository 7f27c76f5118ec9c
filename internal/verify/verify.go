// Package verify re-derives the cross-index consistency invariants for
// a completed index directory by walking the persisted buckets directly
// (no in-memory run state — defs_idxes/bindings_idxes are per-run and
// never persisted, so the invariants that mention them can only be
// checked against the data DefExtractor/RefExtractor actually wrote, not
// against the live maps themselves).
package verify

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/xrefdb/indexer/internal/model"
	"github.com/xrefdb/indexer/internal/store"
)

// Report summarizes one verification pass.
type Report struct {
	NumBlobs uint64
	NumTags  int
	Failures []string
}

// Run checks:
//   - blob and hash are mutual inverses (hash(blob[h])==h for every h, and
//     every id<numBlobs recorded in hash has a matching blob entry)
//   - every id<numBlobs has both a hash and a file entry
//   - every vers entry is sorted ascending by id, with every id < numBlobs
//   - every defs entry's family summary matches the set of families its
//     entries actually carry
//   - every refs/docs/comps/comps_docs entry has no entry referencing an
//     id >= numBlobs
func Run(st *store.Store) (*Report, error) {
	r := &Report{}

	numBlobs, err := st.NumBlobs()
	if err != nil {
		return nil, fmt.Errorf("reading numBlobs: %w", err)
	}
	r.NumBlobs = numBlobs

	blobToID := make(map[string]uint64)
	if err := st.Walk("blob", func(k, v []byte) error {
		blobToID[string(k)] = binary.BigEndian.Uint64(v)
		return nil
	}); err != nil {
		return nil, err
	}

	seenHashIDs := make(map[uint64]struct{})
	hashByID := make(map[uint64]string)
	if err := st.Walk("hash", func(k, v []byte) error {
		id := binary.BigEndian.Uint64(k)
		seenHashIDs[id] = struct{}{}
		hashByID[id] = string(v)
		if id >= numBlobs {
			r.Failures = append(r.Failures, fmt.Sprintf("hash: id %d >= numBlobs %d", id, numBlobs))
			return nil
		}
		if got, ok := blobToID[string(v)]; !ok || got != id {
			r.Failures = append(r.Failures, fmt.Sprintf("hash: id %d's hash not found (or mismatched) in blob index", id))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for h, id := range blobToID {
		if got, ok := hashByID[id]; !ok || got != h {
			r.Failures = append(r.Failures, fmt.Sprintf("blob: hash %x maps to id %d, whose hash entry does not map back", h, id))
		}
	}

	seenFileIDs := make(map[uint64]struct{})
	if err := st.Walk("file", func(k, v []byte) error {
		id := binary.BigEndian.Uint64(k)
		seenFileIDs[id] = struct{}{}
		if _, ok := seenHashIDs[id]; !ok {
			r.Failures = append(r.Failures, fmt.Sprintf("file: id %d has no matching hash entry", id))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for id := uint64(0); id < numBlobs; id++ {
		if _, ok := seenHashIDs[id]; !ok {
			r.Failures = append(r.Failures, fmt.Sprintf("id %d < numBlobs has no hash entry", id))
		}
		if _, ok := seenFileIDs[id]; !ok {
			r.Failures = append(r.Failures, fmt.Sprintf("id %d < numBlobs has no file entry", id))
		}
	}

	if err := st.Walk("vers", func(k, v []byte) error {
		r.NumTags++
		pl, err := model.ParsePathList(v)
		if err != nil {
			r.Failures = append(r.Failures, fmt.Sprintf("vers[%s]: %v", k, err))
			return nil
		}
		ids := make([]uint64, len(pl.Entries))
		for i, e := range pl.Entries {
			ids[i] = e.ID
			if e.ID >= numBlobs {
				r.Failures = append(r.Failures, fmt.Sprintf("vers[%s]: id %d >= numBlobs %d", k, e.ID, numBlobs))
			}
		}
		if !sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }) {
			r.Failures = append(r.Failures, fmt.Sprintf("vers[%s]: ids not sorted ascending", k))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := st.Walk("defs", func(k, v []byte) error {
		dl, err := model.ParseDefList(v)
		if err != nil {
			r.Failures = append(r.Failures, fmt.Sprintf("defs[%s]: %v", k, err))
			return nil
		}
		seen := make(map[model.Family]struct{})
		for _, e := range dl.Entries {
			seen[e.Family] = struct{}{}
			if e.ID >= numBlobs {
				r.Failures = append(r.Failures, fmt.Sprintf("defs[%s]: id %d >= numBlobs %d", k, e.ID, numBlobs))
			}
		}
		for _, f := range dl.Families() {
			if _, ok := seen[f]; !ok {
				r.Failures = append(r.Failures, fmt.Sprintf("defs[%s]: family summary lists %s with no matching entry", k, f))
			}
		}
		for f := range seen {
			found := false
			for _, sf := range dl.Families() {
				if sf == f {
					found = true
					break
				}
			}
			if !found {
				r.Failures = append(r.Failures, fmt.Sprintf("defs[%s]: entries carry family %s missing from summary", k, f))
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Walk is a no-op for comps/comps_docs when device-tree support is off.
	for _, bucket := range []string{"refs", "docs", "comps", "comps_docs"} {
		bucket := bucket
		if err := st.Walk(bucket, func(k, v []byte) error {
			rl, err := model.ParseRefList(v)
			if err != nil {
				r.Failures = append(r.Failures, fmt.Sprintf("%s[%s]: %v", bucket, k, err))
				return nil
			}
			for _, e := range rl.Entries {
				if e.ID >= numBlobs {
					r.Failures = append(r.Failures, fmt.Sprintf("%s[%s]: id %d >= numBlobs %d", bucket, k, e.ID, numBlobs))
				}
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if st.DTEnabled() {
		compKeys := make(map[string]struct{})
		if err := st.Walk("comps", func(k, v []byte) error {
			compKeys[string(k)] = struct{}{}
			return nil
		}); err != nil {
			return nil, err
		}
		if err := st.Walk("comps_docs", func(k, v []byte) error {
			if _, ok := compKeys[string(k)]; !ok {
				r.Failures = append(r.Failures, fmt.Sprintf("comps_docs[%s]: no matching comps entry", k))
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	return r, nil
}
