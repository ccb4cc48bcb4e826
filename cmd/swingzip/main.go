package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/ybirader/swingzip"
)

const (
	folderToZip = "swing-analysis"
	zipFilename = "swing-analysis.zip"
)

const description = "swingzip archives " + folderToZip + " into " + zipFilename + ", leaving out node_modules and .mp4 videos."

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "swingzip",
		Short:         description,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli := swingzip.CLI{Source: folderToZip, ArchivePath: zipFilename, Stdout: cmd.OutOrStdout()}
			return cli.Archive()
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
