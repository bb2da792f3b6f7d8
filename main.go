package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"file-meta-collector/cmd"
)

func main() {
	rootCmd := &cobra.Command{Use: "collector"}
	rootCmd.AddCommand(cmd.CollectCmd)
	rootCmd.AddCommand(cmd.VerifyCmd)
	rootCmd.AddCommand(cmd.AttrsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute command: %v\n", err)
		os.Exit(1)
	}
}
