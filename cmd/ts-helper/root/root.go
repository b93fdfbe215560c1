package root

import (
	"context"
	"os"

	"github.com/flarebyte/ngc-helper/internal/buildinfo"
	"github.com/flarebyte/ngc-helper/internal/config"
	"github.com/flarebyte/ngc-helper/internal/ctxlog"
	"github.com/flarebyte/ngc-helper/internal/extract"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the ts-helper command.
func NewRootCmd() *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "ts-helper [dir]",
		Short:         "Extract @Component metadata from TypeScript sources",
		Args:          cobra.MaximumNArgs(1),
		Version:       buildinfo.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			logger := ctxlog.New(verbose, cmd.ErrOrStderr())
			ctx := ctxlog.WithLogger(cmd.Context(), logger)

			s := extract.NewScanner(extract.OptionsFromConfig(cfg.Extractor))
			defer s.Close()
			res, err := s.Scan(ctx, dir)
			if err != nil {
				return err
			}
			return extract.WriteJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.SetVersionTemplate("ts-helper {{.Version}}\n")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue, .yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log scan progress to stderr")
	return cmd
}

// Execute runs the command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(context.Background())
}
