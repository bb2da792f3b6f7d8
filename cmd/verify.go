package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"file-meta-collector/core/verifier"
)

var (
	targetDir     string
	metaFilePath  string
	reportPath    string
	verifierCount int

	VerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a directory tree against a metadata file",
		Long:  "Verify that the target directory matches a previously collected metadata file, including extended attributes",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if targetDir == "" || metaFilePath == "" {
				return fmt.Errorf("target directory and metadata file path must be specified. "+
					"got target directory: %s, metadata file path: %s", targetDir, metaFilePath)
			}

			if verifierCount < 1 {
				return fmt.Errorf("verifier count must be greater than 0. got %d", verifierCount)
			}

			slog.Info("Finish to validate flags:",
				slog.String("TargetDir", targetDir),
				slog.String("MetaFilePath", metaFilePath),
				slog.String("ReportPath", reportPath),
				slog.Int("VerifierCount", verifierCount),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter, err := verifier.NewReporter(reportPath)
			if err != nil {
				return fmt.Errorf("failed to create reporter: %w", err)
			}
			defer reporter.Flush()

			v, err := verifier.NewFileVerifier(targetDir, reporter)
			if err != nil {
				return fmt.Errorf("failed to create file verifier: %w", err)
			}

			return v.Verify(context.Background(), metaFilePath, verifierCount)
		},
	}
)

func init() {
	VerifyCmd.PersistentFlags().StringVarP(&targetDir, "target", "t", "", "the target directory to verify")
	VerifyCmd.PersistentFlags().StringVarP(&metaFilePath, "meta", "m", "", "the metadata file path")
	VerifyCmd.PersistentFlags().StringVarP(&reportPath, "report", "p", "./error_report.txt", "the path of the mismatch report")
	VerifyCmd.PersistentFlags().IntVarP(&verifierCount, "verifier", "v", 16, "the number of verifiers to use")
}
