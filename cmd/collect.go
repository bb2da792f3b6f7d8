package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"file-meta-collector/core/datasource"
	"file-meta-collector/core/metadata"
	"file-meta-collector/core/utils"
)

var (
	sourceDir   string
	outputDir   string
	outputName  string
	readerCount int
	writerCount int

	CollectCmd = &cobra.Command{
		Use:     "collect",
		Short:   "Collect file metadata from a directory tree",
		Long:    "Walk the specified source directory and write the metadata of every entry, including extended attributes, to a metadata file",
		Example: "./binary collect --source ./ --output ./output --reader 16 --writer 16",
		PreRunE: func(cmd *cobra.Command, args []string) error { // pre run to validate flags
			if sourceDir == "" || outputDir == "" {
				return fmt.Errorf("source and output directory must be specified. "+
					"got source: %s, output: %s", sourceDir, outputDir)
			}

			if readerCount < 1 {
				return fmt.Errorf("reader count must be greater than 0. got %d", readerCount)
			}

			if writerCount < 1 {
				return fmt.Errorf("writer count must be greater than 0. got %d", writerCount)
			}

			if outputName != "" {
				utils.SetOutputFileName(outputName)
			}

			slog.Info("Finish to validate flags:",
				slog.String("SourceDir", sourceDir),
				slog.String("OutputDir", outputDir),
				slog.String("OutputName", utils.GetOutputFileName()),
				slog.Int("ReaderCount", readerCount),
				slog.Int("WriterCount", writerCount),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			ds, err := datasource.NewFileSource(sourceDir)
			if err != nil {
				return fmt.Errorf("failed to create file source: %w", err)
			}

			writer, err := datasource.NewMetaWriter(sourceDir, outputDir)
			if err != nil {
				return fmt.Errorf("failed to create meta writer: %w", err)
			}

			metaItemC := make(chan *metadata.Meta, 1)
			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error { return ds.Walk(gCtx, outputDir, metaItemC, readerCount) })
			g.Go(func() error { return writer.Write(gCtx, metaItemC, writerCount) })
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to collect metadata: %w", err)
			}

			return nil
		},
	}
)

func init() {
	CollectCmd.PersistentFlags().StringVarP(&sourceDir, "source", "s", "", "source directory to collect metadata from")
	CollectCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory path")
	CollectCmd.PersistentFlags().StringVarP(&outputName, "name", "n", "", "name of the metadata file")
	CollectCmd.PersistentFlags().IntVarP(&readerCount, "reader", "r", 1, "number of readers to open and load file meta")
	CollectCmd.PersistentFlags().IntVarP(&writerCount, "writer", "w", 1, "number of writers to write meta to file")
}
