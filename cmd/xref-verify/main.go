// Command xref-verify re-derives the cross-index consistency invariants
// for a completed index directory, without needing a read-side query
// layer: it walks every persisted bucket directly via store.Walk. Kept as
// a separate urfave/cli-based binary from xref-index's cobra tree so both
// CLI frameworks get a genuine home rather than one being dropped outright.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli"

	"github.com/xrefdb/indexer/internal/store"
	"github.com/xrefdb/indexer/internal/verify"
)

func main() {
	app := cli.NewApp()
	app.Name = "xref-verify"
	app.Usage = "check a cross-reference index directory for consistency"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "data-dir", Usage: "index directory to check (defaults to $XREF_DATA_DIR)"},
		cli.BoolFlag{Name: "verbose"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	dir := c.String("data-dir")
	if dir == "" {
		dir = os.Getenv("XREF_DATA_DIR")
	}
	if dir == "" {
		return fmt.Errorf("xref-verify: --data-dir or XREF_DATA_DIR must be set")
	}

	dtEnabled, err := store.ProbeDT(dir)
	if err != nil {
		return fmt.Errorf("xref-verify: probing %s: %w", dir, err)
	}

	st, err := store.Open(dir, false, dtEnabled)
	if err != nil {
		return fmt.Errorf("xref-verify: opening %s: %w", dir, err)
	}
	defer st.Close()

	report, err := verify.Run(st)
	if err != nil {
		return fmt.Errorf("xref-verify: %w", err)
	}

	for _, f := range report.Failures {
		fmt.Println("FAIL:", f)
	}
	fmt.Printf("%d blobs, %d tags, %d failures\n", report.NumBlobs, report.NumTags, len(report.Failures))
	if len(report.Failures) > 0 {
		os.Exit(1)
	}
	return nil
}
