package pipeline

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/model"
	"github.com/xrefdb/indexer/internal/vcs"
)

// runDefExtractor is one of N_def DefExtractor workers. Worker k takes
// tags k, k+N, k+2N, ... so every worker makes forward
// progress on a disjoint, deterministic subset of tags without needing to
// coordinate tag ownership at runtime.
func (c *Coordinator) runDefExtractor(ctx context.Context, barriers []*tagBarrier, k, poolSize int) error {
	for i := k; i < len(barriers); i += poolSize {
		b := barriers[i]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.a:
		}

		for _, id := range b.newIDs {
			if err := c.extractDefsForBlob(ctx, id); err != nil {
				return fmt.Errorf("pipeline: def extractor: tag %q blob %d: %w", b.tag, id, err)
			}
		}

		log.Debug("definitions extracted", "tag", b.tag, "worker", k)
		b.arriveD()
	}
	return nil
}

func (c *Coordinator) extractDefsForBlob(ctx context.Context, id uint64) error {
	meta, err := c.Store.BlobMetaByID(id)
	if err != nil {
		return err
	}
	family := model.FamilyOfBasename(meta.Basename)
	if family == model.None || family == model.FamilyM {
		return nil
	}

	recs, err := c.Helper.ParseDefs(ctx, meta.Hash, meta.Basename, family)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		if err := c.recordDef(id, rec, family); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) recordDef(id uint64, rec vcs.DefRecord, family model.Family) error {
	c.defsMu.Lock()
	defer c.defsMu.Unlock()

	c.defsIdxes[defKey{id: id, line: rec.Line}] = rec.Ident

	raw, err := c.Store.GetRaw("defs", []byte(rec.Ident))
	if err != nil {
		return err
	}

	var dl *model.DefList
	if raw != nil {
		dl, err = model.ParseDefList(raw)
		if err != nil {
			return err
		}
	} else {
		if !model.IsIdent(rec.Ident, family) {
			return nil
		}
		dl = model.NewDefList()
	}

	dl.Append(id, rec.Kind, rec.Line, family)
	return c.Store.PutRaw("defs", []byte(rec.Ident), dl.Pack())
}
