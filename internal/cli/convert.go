package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	docio "github.com/matzehuels/rankplot/pkg/io"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// convertCommand creates the convert command, which rewrites a TOML or JSON
// document as JSON.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a chart document to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := docio.ImportFile(args[0])
			if err != nil {
				return err
			}
			t, err := rank.Normalize(in)
			if err != nil {
				return err
			}

			if output == "" {
				return docio.WriteJSON(in, os.Stdout)
			}
			if err := docio.ExportJSON(in, output); err != nil {
				return err
			}
			printSuccess("Converted %s", filepath.Base(args[0]))
			printDetail("%d columns × %d rows", t.Rows(), t.RowLen())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return cmd
}
