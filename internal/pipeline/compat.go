package pipeline

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/dtcompat"
	"github.com/xrefdb/indexer/internal/model"
)

// runCompatExtractor is one of N_comp CompatExtractor workers, active
// only when the store has device-tree support enabled. Unlike
// DefExtractor/DocExtractor it skips family K and M alongside None: a
// device-tree compatible string can only come from C, D or TS source.
func (c *Coordinator) runCompatExtractor(ctx context.Context, barriers []*tagBarrier, k, poolSize int) error {
	for i := k; i < len(barriers); i += poolSize {
		b := barriers[i]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.a:
		}

		for _, id := range b.newIDs {
			if err := c.extractCompatForBlob(ctx, id); err != nil {
				return fmt.Errorf("pipeline: compat extractor: tag %q blob %d: %w", b.tag, id, err)
			}
		}

		log.Debug("compatible strings extracted", "tag", b.tag, "worker", k)
		b.arriveC()
	}
	return nil
}

func (c *Coordinator) extractCompatForBlob(ctx context.Context, id uint64) error {
	meta, err := c.Store.BlobMetaByID(id)
	if err != nil {
		return err
	}
	family := model.FamilyOfBasename(meta.Basename)
	if family == model.None || family == model.FamilyK || family == model.FamilyM {
		return nil
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

	c.compsMu.Lock()
	defer c.compsMu.Unlock()
	for compat, ls := range lines {
		raw, err := c.Store.GetRaw("comps", []byte(compat))
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
		rl.Append(id, joinLines(ls), family)
		if err := c.Store.PutRaw("comps", []byte(compat), rl.Pack()); err != nil {
			return err
		}
	}
	return nil
}

func coalesceOccurrences(occ []dtcompat.Occurrence) map[string][]int {
	out := make(map[string][]int)
	for _, o := range occ {
		out[o.Compatible] = append(out[o.Compatible], o.Line)
	}
	return out
}
