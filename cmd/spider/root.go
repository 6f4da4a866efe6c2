package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errInterrupted is returned when a run was stopped by a signal. The
// partial report has been written already.
var errInterrupted = errors.New("interrupted")

// exitInterrupted is the conventional exit status after SIGINT.
const exitInterrupted = 130

// NewRootCmd creates the root command for spider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spider",
		Short: "Crawl a web site and download its images and documents",
		Long: `spider crawls a web site starting from a seed URL and downloads every
image and document (JPEG, PNG, GIF, BMP, PDF, DOCX) it finds.

Pages are visited breadth first. With -r, links to pages on the same host
are followed up to the maximum level. Downloaded files are classified by
their content, not by their name or declared type.

Use 'spider meta' to print the metadata of the downloaded files.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewMetaCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errInterrupted) {
		fmt.Fprintln(os.Stderr, "Interrupted: the report above is partial.")
		os.Exit(exitInterrupted)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
