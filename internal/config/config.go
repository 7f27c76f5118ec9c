// Package config centralizes the environment- and flag-driven settings the
// indexing pipeline needs: the two required paths and the worker-pool
// sizing rule.
package config

import (
	"fmt"
	"os"
)

// Config holds validated pipeline settings.
type Config struct {
	DataDir    string // XREF_DATA_DIR: the on-disk index directory
	RepoDir    string // XREF_REPO_DIR: the source repository checkout
	HelperPath string // path to the revision-control helper executable
	Workers    int    // total worker budget W, minimum 5
	DevTree    bool   // force device-tree support on/off instead of asking the helper
	DevTreeSet bool   // whether DevTree was explicitly set
	MetricsAddr string // optional "host:port" to serve Prometheus metrics on
	Verbose    bool
}

// FromEnv reads the two required environment variables. Both must be set;
// a missing XREF_DATA_DIR or XREF_REPO_DIR is a fatal startup error.
func FromEnv() (dataDir, repoDir string, err error) {
	dataDir = os.Getenv("XREF_DATA_DIR")
	if dataDir == "" {
		return "", "", fmt.Errorf("config: XREF_DATA_DIR must be set")
	}
	repoDir = os.Getenv("XREF_REPO_DIR")
	if repoDir == "" {
		return "", "", fmt.Errorf("config: XREF_REPO_DIR must be set")
	}
	return dataDir, repoDir, nil
}

// WorkerCounts implements the thread-allocation rule:
// base = floor(W/5); N_def = N_ref = N_doc = base; N_comp = N_cdoc = base
// if dtEnabled else 0; remainders distributed so N_ref >= N_def >= N_doc.
type WorkerCounts struct {
	Def, Ref, Doc, Comp, CDoc int
}

// Allocate computes the per-stage worker counts for a total budget w
// (clamped to a minimum of 5).
func Allocate(w int, dtEnabled bool) WorkerCounts {
	if w < 5 {
		w = 5
	}
	base := w / 5
	remainder := w - base*5

	wc := WorkerCounts{Def: base, Ref: base, Doc: base}
	if dtEnabled {
		wc.Comp, wc.CDoc = base, base
	}

	// Distribute the remainder so Ref >= Def >= Doc, handing out one extra
	// worker at a time to Ref, then Def, then Doc, then (if DT enabled)
	// Comp and CDoc, cycling until exhausted.
	order := []*int{&wc.Ref, &wc.Def, &wc.Doc}
	if dtEnabled {
		order = append(order, &wc.Comp, &wc.CDoc)
	}
	for i := 0; remainder > 0; i = (i + 1) % len(order) {
		*order[i]++
		remainder--
	}
	return wc
}
