package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/flarebyte/ngc-helper/internal/buildinfo"
	"github.com/spf13/cobra"
)

// NewCmd returns a version subcommand for the named binary.
func NewCmd(binary string) *cobra.Command {
	var flagJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flagJSON {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", binary, buildinfo.Summary())
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(map[string]any{
				"version": buildinfo.Version,
				"commit":  buildinfo.Commit,
				"date":    buildinfo.Date,
				"go":      runtime.Version(),
				"go_os":   runtime.GOOS,
				"go_arch": runtime.GOARCH,
			})
		},
	}
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
	return cmd
}
