// Package pipeline implements the incremental indexing pipeline: the
// staged, multi-threaded walk over a repository's tags that turns blobs
// into the seven persistent indexes store.Store exposes. This is the
// hardest part of the repository — the event ordering protocol (A/D/C/V)
// and lock discipline have to hold under five concurrent worker pools
// racing across many tags at once.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/c2h5oh/datasize"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/xrefdb/indexer/internal/config"
	"github.com/xrefdb/indexer/internal/store"
)

// bindingsDocPrefix is the repository-path prefix VersionRecorder checks
// to populate bindingsIdxes — the set of ids CompatDocExtractor processes
// under family B regardless of their real basename family.
const bindingsDocPrefix = "Documentation/devicetree/bindings"

// defKey is the composite key of the in-memory defsIdxes map: (blob id,
// line) -> identifier defined there. A struct-keyed map is preferable to
// a packed id*K+line integer scheme; nothing downstream depends on the
// packed integer form.
type defKey struct {
	id   uint64
	line int
}

// Coordinator owns every mutex the index inventory requires, the
// in-memory structures built during a run, and the worker pools that race
// across tags. One Coordinator serves exactly one indexing run.
type Coordinator struct {
	Store   *store.Store
	Helper  RepoHelper
	Workers config.WorkerCounts
	Project string

	blobsMu    sync.Mutex
	hashFileMu sync.Mutex
	defsMu     sync.Mutex
	refsMu     sync.Mutex
	docsMu     sync.Mutex
	compsMu    sync.Mutex
	compsDocMu sync.Mutex

	defsIdxes map[defKey]string // guarded by defsMu

	bindingsMu    sync.Mutex
	bindingsIdxes *roaring64.Bitmap // guarded by bindingsMu

	metrics *metrics

	numTags      int64
	blobsCounter int64
	tagsCounter  int64
}

// New builds a Coordinator ready to Run over a set of new tags.
func New(st *store.Store, helper RepoHelper, workers config.WorkerCounts, project string) *Coordinator {
	return &Coordinator{
		Store:         st,
		Helper:        helper,
		Workers:       workers,
		Project:       project,
		defsIdxes:     make(map[defKey]string),
		bindingsIdxes: roaring64.New(),
		metrics:       newMetrics(),
	}
}

// Metrics exposes the Prometheus registry backing this run's progress
// counters, for cmd/xref-index to serve over HTTP.
func (c *Coordinator) Metrics() *prometheus.Registry { return c.metrics.Registry() }

// Discover returns the tags the helper knows about that aren't yet
// recorded in vers, in helper order — re-running against an unchanged
// repository discovers nothing and Run becomes a no-op.
func (c *Coordinator) Discover(ctx context.Context) ([]string, error) {
	raw, err := c.Helper.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: listing tags: %w", err)
	}
	var out []string
	for _, t := range raw {
		tag := string(t)
		exists, err := c.Store.TagExists(tag)
		if err != nil {
			return nil, fmt.Errorf("pipeline: checking tag %q: %w", tag, err)
		}
		if exists {
			log.Debug("tag already indexed, skipping", "tag", tag)
			continue
		}
		out = append(out, tag)
	}
	return out, nil
}

// Run drives the full pipeline over tags: every worker pool races across
// the same []*tagBarrier slice, gated by the A/D/C/V events each tag
// exposes. Returns the first fatal error from any stage; all other
// in-flight work is cancelled via the errgroup's shared context.
func (c *Coordinator) Run(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		log.Info("nothing to index", "project", c.Project)
		return nil
	}
	c.numTags = int64(len(tags))

	barriers := make([]*tagBarrier, len(tags))
	for i, t := range tags {
		barriers[i] = newTagBarrier(t)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.runBlobIDAssigner(gctx, barriers) })
	g.Go(func() error { return c.runVersionRecorder(gctx, barriers) })

	for k := 0; k < c.Workers.Def; k++ {
		k := k
		g.Go(func() error { return c.runDefExtractor(gctx, barriers, k, c.Workers.Def) })
	}
	for k := 0; k < c.Workers.Ref; k++ {
		k := k
		g.Go(func() error { return c.runRefExtractor(gctx, barriers, k, c.Workers.Ref) })
	}
	for k := 0; k < c.Workers.Doc; k++ {
		k := k
		g.Go(func() error { return c.runDocExtractor(gctx, barriers, k, c.Workers.Doc) })
	}
	if c.Store.DTEnabled() {
		for k := 0; k < c.Workers.Comp; k++ {
			k := k
			g.Go(func() error { return c.runCompatExtractor(gctx, barriers, k, c.Workers.Comp) })
		}
		for k := 0; k < c.Workers.CDoc; k++ {
			k := k
			g.Go(func() error { return c.runCompatDocExtractor(gctx, barriers, k, c.Workers.CDoc) })
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	defsBytes := estimateDefsIdxesSize(c.defsIdxes)
	log.Info("indexing run complete",
		"project", c.Project,
		"tags", len(tags),
		"blobs", c.blobsCounter,
		"defs_idxes_entries", len(c.defsIdxes),
		"defs_idxes_size", datasize.ByteSize(defsBytes).HumanReadable())
	return nil
}

func estimateDefsIdxesSize(m map[defKey]string) uint64 {
	const overhead = 48 // map bucket + struct key overhead, approximate
	var total uint64
	for k, v := range m {
		total += uint64(len(v)) + overhead
		_ = k
	}
	return total
}

// progress logs and records a stage's completion ratio. count is the
// stage's own cumulative counter (blobs processed, tags finished); the
// denominator is always the number of new tags in this run — not a
// blob-weighted estimate.
func (c *Coordinator) progress(stage string, count int64) {
	var frac float64
	if c.numTags > 0 {
		frac = float64(count) / float64(c.numTags)
	}
	log.Info(fmt.Sprintf("%s - %s (%.1f%%)", c.Project, stage, frac*100))
	c.metrics.observe(stage, count)
}

func (c *Coordinator) bumpBlobs(n int64) {
	v := atomic.AddInt64(&c.blobsCounter, n)
	if v%1000 == 0 {
		c.progress("indexing blobs", v)
	}
}

func (c *Coordinator) bumpTags(stage string) int64 {
	v := atomic.AddInt64(&c.tagsCounter, 1)
	c.progress(stage, v)
	return v
}
