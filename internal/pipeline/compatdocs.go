package pipeline

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/dtcompat"
	"github.com/xrefdb/indexer/internal/model"
)

// runCompatDocExtractor is one of N_cdoc CompatDocExtractor workers:
// waits on A, C and V for each tag, then processes only
// the blobs VersionRecorder marked as binding documentation, parsed under
// family B regardless of their real basename family. A compatible string
// is recorded only if it already appears in comps — a binding document
// mentioning a string nothing actually uses isn't cross-linked.
func (c *Coordinator) runCompatDocExtractor(ctx context.Context, barriers []*tagBarrier, k, poolSize int) error {
	for i := k; i < len(barriers); i += poolSize {
		b := barriers[i]
		if err := waitAll(ctx, b.a, b.c, b.v); err != nil {
			return err
		}

		for _, id := range b.newIDs {
			c.bindingsMu.Lock()
			isBinding := c.bindingsIdxes.Contains(id)
			c.bindingsMu.Unlock()
			if !isBinding {
				continue
			}
			if err := c.extractCompatDocForBlob(ctx, id); err != nil {
				return fmt.Errorf("pipeline: compat doc extractor: tag %q blob %d: %w", b.tag, id, err)
			}
		}

		log.Debug("compatible-string bindings cross-linked", "tag", b.tag, "worker", k)
	}
	return nil
}

func (c *Coordinator) extractCompatDocForBlob(ctx context.Context, id uint64) error {
	meta, err := c.Store.BlobMetaByID(id)
	if err != nil {
		return err
	}

	data, err := c.Helper.GetBlob(ctx, meta.Hash)
	if err != nil {
		return err
	}

	occ := dtcompat.Extract(data)
	if len(occ) == 0 {
		return nil
	}
	lines := coalesceOccurrences(occ)

	for compat, ls := range lines {
		c.compsMu.Lock()
		exists, err := c.Store.Exists("comps", []byte(compat))
		c.compsMu.Unlock()
		if err != nil {
			return err
		}
		if !exists {
			continue
		}

		c.compsDocMu.Lock()
		err = func() error {
			defer c.compsDocMu.Unlock()
			raw, err := c.Store.GetRaw("comps_docs", []byte(compat))
			if err != nil {
				return err
			}
			var rl *model.RefList
			if raw != nil {
				rl, err = model.ParseRefList(raw)
				if err != nil {
					return err
				}
			} else {
				rl = model.NewRefList()
			}
			rl.Append(id, joinLines(ls), model.FamilyB)
			return c.Store.PutRaw("comps_docs", []byte(compat), rl.Pack())
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

func waitAll(ctx context.Context, chs ...<-chan struct{}) error {
	for _, ch := range chs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
	return nil
}
