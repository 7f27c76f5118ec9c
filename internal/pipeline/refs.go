package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/xrefdb/indexer/internal/model"
	"github.com/xrefdb/indexer/internal/store"
)

// runRefExtractor is one of N_ref RefExtractor workers. Waits for both
// A and D on each tag: D matters because a reference is
// only recorded if the identifier already has a defs entry, so every
// DefExtractor worker touching this tag must have finished first.
func (c *Coordinator) runRefExtractor(ctx context.Context, barriers []*tagBarrier, k, poolSize int) error {
	for i := k; i < len(barriers); i += poolSize {
		b := barriers[i]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.a:
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.d:
		}

		for _, id := range b.newIDs {
			if err := c.extractRefsForBlob(ctx, id); err != nil {
				return fmt.Errorf("pipeline: ref extractor: tag %q blob %d: %w", b.tag, id, err)
			}
		}

		log.Debug("references extracted", "tag", b.tag, "worker", k)
	}
	return nil
}

func (c *Coordinator) extractRefsForBlob(ctx context.Context, id uint64) error {
	meta, err := c.Store.BlobMetaByID(id)
	if err != nil {
		return err
	}
	family := model.FamilyOfBasename(meta.Basename)
	if family == model.None {
		return nil
	}

	// defsMu is held for the whole tokenization pass: defs_idxes reads
	// (same-line suppression) and defs.exists checks must see a
	// consistent snapshot against any concurrent DefExtractor writer.
	c.defsMu.Lock()
	hits, err := c.tokenizeAndMatch(ctx, id, meta, family)
	c.defsMu.Unlock()
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return nil
	}

	c.refsMu.Lock()
	defer c.refsMu.Unlock()
	for ident, lines := range hits {
		raw, err := c.Store.GetRaw("refs", []byte(ident))
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
		rl.Append(id, joinLines(lines), family)
		if err := c.Store.PutRaw("refs", []byte(ident), rl.Pack()); err != nil {
			return err
		}
	}
	return nil
}

// tokenizeAndMatch streams the blob's tokens and returns, per matched
// identifier, the ordered list of lines it occurred on. Must be called
// with defsMu held.
func (c *Coordinator) tokenizeAndMatch(ctx context.Context, id uint64, meta store.BlobMeta, family model.Family) (map[string][]int, error) {
	ts, err := c.Helper.TokenizeFile(ctx, meta.Hash, family)
	if err != nil {
		return nil, err
	}

	hits := make(map[string][]int)
	line := 1
	for {
		tok, isIdent, ok := ts.Next()
		if !ok {
			break
		}
		if !isIdent {
			// tokenize-file -b separates chunks with '\n' and encodes each
			// source newline within a chunk as 0x01.
			line += bytes.Count(tok, []byte{0x01})
			continue
		}

		ident := string(tok)
		switch family {
		case model.FamilyK:
			ident = "CONFIG_" + ident
		case model.FamilyM:
			if !strings.HasPrefix(ident, "CONFIG_") {
				continue
			}
		}

		exists, err := c.Store.Exists("defs", []byte(ident))
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		if defIdent, isDef := c.defsIdxes[defKey{id: id, line: line}]; isDef && defIdent == ident {
			// this occurrence is the definition itself, not a use
			continue
		}

		hits[ident] = append(hits[ident], line)
	}
	if err := ts.Close(); err != nil {
		return nil, err
	}
	return hits, nil
}

func joinLines(lines []int) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(l))
	}
	return b.String()
}
