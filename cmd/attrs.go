package cmd

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"file-meta-collector/core/xattrs"
)

var AttrsCmd = &cobra.Command{
	Use:   "attrs <path>",
	Short: "Print the extended attributes of a single path",
	Long:  "List the extended attributes of the given path and print one name per line, followed by the value when the attribute has one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := xattrs.List(args[0])
		if err != nil {
			return fmt.Errorf("failed to list the extended attributes of %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		for {
			attr, ok := it.Next()
			if !ok {
				return nil
			}

			if len(attr.Value) == 0 {
				fmt.Fprintln(out, attr.Name)
				continue
			}
			fmt.Fprintf(out, "%s=%s\n", attr.Name, renderValue(attr.Value))
		}
	},
}

// renderValue keeps printable values readable and quotes everything else.
func renderValue(value []byte) string {
	if utf8.Valid(value) {
		return string(value)
	}
	return strconv.Quote(string(value))
}
