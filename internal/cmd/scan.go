package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"pegascrape/internal/pipeline"
	"pegascrape/internal/probe"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the collection and enrich every unrecorded video file",
	Long: `Scan walks the movies directory, identifies every video file that has no
store record yet, downloads the configured assets and updates the metadata
store and the Pegasus collection file.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.closeLog()

	prober := probe.New(a.log)
	p := pipeline.New(a.cfg, a.client, prober, a.log, os.Stdout)
	return p.Run(cmd.Context())
}
