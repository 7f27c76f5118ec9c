package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagWorkers     int
	flagHelper      string
	flagDevTree     bool
	flagDevTreeSet  bool
	flagMetricsAddr string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "xref-index",
	Short: "Build and update a cross-reference index for a source tree",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagVerbose)
		flagDevTreeSet = cmd.Flags().Changed("devicetree")
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 5, "total worker budget (minimum 5)")
	rootCmd.PersistentFlags().StringVar(&flagHelper, "helper", "", "path to the revision-control helper executable (required)")
	rootCmd.PersistentFlags().BoolVar(&flagDevTree, "devicetree", false, "force device-tree compatible-string indexing on/off instead of asking the helper")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "optional host:port to serve Prometheus metrics on")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug-level logging")

	rootCmd.AddCommand(indexCmd)
}

// setupLogging matches the go-ethereum-derived convention the rest of the
// stack uses: a terminal-aware handler when stderr is a tty, plain text
// otherwise.
func setupLogging(verbose bool) {
	lvl := log.LvlInfo
	if verbose {
		lvl = log.LvlDebug
	}
	fd := os.Stderr.Fd()
	usecolor := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := colorable.NewColorableStderr()
	handler := log.StreamHandler(output, log.TerminalFormat(usecolor))
	log.Root().SetHandler(log.LvlFilterHandler(lvl, handler))
}
