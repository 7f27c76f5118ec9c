package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/xrefdb/indexer/internal/config"
	"github.com/xrefdb/indexer/internal/pipeline"
	"github.com/xrefdb/indexer/internal/store"
	"github.com/xrefdb/indexer/internal/vcs"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Discover new tags and index them",
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	if flagHelper == "" {
		return fmt.Errorf("index: --helper is required")
	}

	dataDir, repoDir, err := config.FromEnv()
	if err != nil {
		return err
	}

	helper := vcs.New(flagHelper, repoDir)

	ctx := cmd.Context()
	dtEnabled := flagDevTree
	if !flagDevTreeSet {
		dtEnabled, err = helper.DtsComp(ctx)
		if err != nil {
			return fmt.Errorf("index: probing device-tree support: %w", err)
		}
	}

	st, err := store.Open(dataDir, false, dtEnabled)
	if err != nil {
		return fmt.Errorf("index: opening store: %w", err)
	}
	defer st.Close()

	workers := config.Allocate(flagWorkers, dtEnabled)
	log.Info("worker allocation", "def", workers.Def, "ref", workers.Ref, "doc", workers.Doc, "comp", workers.Comp, "cdoc", workers.CDoc)

	project := filepath.Base(filepath.Dir(filepath.Clean(dataDir)))
	coord := pipeline.New(st, pipeline.WrapHelper(helper), workers, project)

	if flagMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(coord.Metrics(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: flagMetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	tags, err := coord.Discover(ctx)
	if err != nil {
		return fmt.Errorf("index: discovering tags: %w", err)
	}
	log.Info("tags to index", "project", project, "count", len(tags))

	return coord.Run(ctx, tags)
}
