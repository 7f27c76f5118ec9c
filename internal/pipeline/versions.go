package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/model"
)

// runVersionRecorder is the single-threaded VersionRecorder stage: for
// every tag, once event A has fired, resolve every path's blob
// id, build a PathList sorted by id, and write it durably to vers. Also
// populates bindingsIdxes for paths under the device-tree bindings
// documentation tree, since that's the one place a path (not a basename)
// decides whether family B applies.
func (c *Coordinator) runVersionRecorder(ctx context.Context, barriers []*tagBarrier) error {
	for _, b := range barriers {
		if err := ctx.Err(); err != nil {
			return err
		}
		<-b.a

		paths, err := c.Helper.ListBlobsPaths(ctx, []byte(b.tag))
		if err != nil {
			return fmt.Errorf("pipeline: version recorder: tag %q: %w", b.tag, err)
		}

		type idPath struct {
			id   uint64
			path string
		}
		resolved := make([]idPath, 0, len(paths))
		for _, p := range paths {
			c.blobsMu.Lock()
			id, err := c.Store.BlobID(p.Hash)
			c.blobsMu.Unlock()
			if err != nil {
				return fmt.Errorf("pipeline: version recorder: resolving path %q: %w", p.Path, err)
			}
			resolved = append(resolved, idPath{id: id, path: p.Path})

			if strings.HasPrefix(p.Path, bindingsDocPrefix) {
				c.bindingsMu.Lock()
				c.bindingsIdxes.Add(id)
				c.bindingsMu.Unlock()
			}
		}

		sort.Slice(resolved, func(i, j int) bool { return resolved[i].id < resolved[j].id })

		pl := model.NewPathList()
		for _, rp := range resolved {
			pl.Append(rp.id, rp.path)
		}

		if err := c.Store.PutTagPathListSync(b.tag, pl.Pack()); err != nil {
			return fmt.Errorf("pipeline: version recorder: persisting tag %q: %w", b.tag, err)
		}

		log.Debug("tag paths recorded", "tag", b.tag, "paths", len(resolved))
		b.arriveV()
		c.bumpTags("recording tag versions")
	}
	return nil
}
