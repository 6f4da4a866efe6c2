package main

import (
	"fmt"

	"github.com/nao1215/spider/internal/config"
	"github.com/nao1215/spider/internal/log"
	"github.com/nao1215/spider/internal/metadata"
	"github.com/nao1215/spider/internal/report"
	"github.com/spf13/cobra"
)

// NewMetaCmd creates the meta command.
func NewMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta [flags] FILE...",
		Short: "Print the metadata of images and documents",
		Long: `Meta prints the file size and timestamps of each file, followed by the
format specific metadata:

- Images (JPEG, PNG, GIF, BMP): format, color mode, size and EXIF tags
- PDF: page count, author, creator, producer, subject and title
- DOCX: the core document properties

Files are identified by their content. A file that cannot be read or is
not a supported format is reported and the next file is processed.

Examples:
  # Inspect everything a crawl downloaded
  spider meta data/*

  # Markdown output
  spider meta --markdown photo.jpg report.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMetaCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().IntP("jobs", "J", 0,
		"Number of files read concurrently (0 = number of CPUs)")

	return cmd
}

// runMetaCmd executes the meta command.
func runMetaCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

	opts := []metadata.Option{metadata.WithLogger(logger)}
	if jobs > 0 {
		opts = append(opts, metadata.WithConcurrency(jobs))
	}
	reader := metadata.NewFileReader(opts...)

	files, err := reader.ReadAll(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	out := cmd.OutOrStdout()
	var w report.MetadataWriter
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOutput:
		w = report.NewMetadataMarkdownWriter(out)
	default:
		w = report.NewMetadataTextWriter(out)
	}
	_, err = w.WriteMetadata(files)
	return err
}
