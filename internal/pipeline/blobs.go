package pipeline

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// runBlobIDAssigner is the single-threaded BlobIdAssigner stage: for
// every tag in order, assign a fresh monotonic id to every blob
// not already known, recording blob/hash/file, then fire event A.
func (c *Coordinator) runBlobIDAssigner(ctx context.Context, barriers []*tagBarrier) error {
	nextID, err := c.Store.NumBlobs()
	if err != nil {
		return fmt.Errorf("pipeline: blob id assigner: reading numBlobs: %w", err)
	}

	for _, b := range barriers {
		if err := ctx.Err(); err != nil {
			return err
		}

		blobs, err := c.Helper.ListBlobsBasenames(ctx, []byte(b.tag))
		if err != nil {
			return fmt.Errorf("pipeline: blob id assigner: tag %q: %w", b.tag, err)
		}

		var newIDs []uint64
		for _, blob := range blobs {
			c.blobsMu.Lock()
			exists, err := c.Store.BlobExists(blob.Hash)
			if err != nil {
				c.blobsMu.Unlock()
				return fmt.Errorf("pipeline: blob id assigner: checking blob: %w", err)
			}
			var id uint64
			if exists {
				id, err = c.Store.BlobID(blob.Hash)
				if err != nil {
					c.blobsMu.Unlock()
					return fmt.Errorf("pipeline: blob id assigner: resolving existing blob: %w", err)
				}
			} else {
				id = nextID
				nextID++
				if err := c.Store.PutBlobID(blob.Hash, id); err != nil {
					c.blobsMu.Unlock()
					return fmt.Errorf("pipeline: blob id assigner: assigning id: %w", err)
				}
			}
			c.blobsMu.Unlock()

			if !exists {
				c.hashFileMu.Lock()
				err := c.Store.PutHashAndFile(id, blob.Hash, blob.Basename)
				c.hashFileMu.Unlock()
				if err != nil {
					return fmt.Errorf("pipeline: blob id assigner: recording hash/file: %w", err)
				}
			}

			if !exists {
				newIDs = append(newIDs, id)
			}
			c.bumpBlobs(1)
		}

		if err := c.Store.SetNumBlobs(nextID); err != nil {
			return fmt.Errorf("pipeline: blob id assigner: persisting numBlobs: %w", err)
		}

		log.Debug("blob ids assigned", "tag", b.tag, "blobs", len(blobs))
		b.arriveA(newIDs)
	}
	return nil
}
