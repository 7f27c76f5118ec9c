package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/model"
)

// runDocExtractor is one of N_doc DocExtractor workers. Unlike
// RefExtractor it writes unconditionally: a documentation anchor
// doesn't need a prior defs entry to be recorded.
func (c *Coordinator) runDocExtractor(ctx context.Context, barriers []*tagBarrier, k, poolSize int) error {
	for i := k; i < len(barriers); i += poolSize {
		b := barriers[i]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.a:
		}

		for _, id := range b.newIDs {
			if err := c.extractDocsForBlob(ctx, id); err != nil {
				return fmt.Errorf("pipeline: doc extractor: tag %q blob %d: %w", b.tag, id, err)
			}
		}

		log.Debug("doc anchors extracted", "tag", b.tag, "worker", k)
	}
	return nil
}

func (c *Coordinator) extractDocsForBlob(ctx context.Context, id uint64) error {
	meta, err := c.Store.BlobMetaByID(id)
	if err != nil {
		return err
	}
	family := model.FamilyOfBasename(meta.Basename)
	if family == model.None || family == model.FamilyM {
		return nil
	}

	recs, err := c.Helper.ParseDocs(ctx, meta.Hash, meta.Basename)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	c.docsMu.Lock()
	defer c.docsMu.Unlock()
	for _, rec := range recs {
		raw, err := c.Store.GetRaw("docs", []byte(rec.Ident))
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
		rl.Append(id, strconv.Itoa(rec.Line), family)
		if err := c.Store.PutRaw("docs", []byte(rec.Ident), rl.Pack()); err != nil {
			return err
		}
	}
	return nil
}
