package root

import (
	"context"
	"fmt"
	"os"

	"github.com/flarebyte/ngc-helper/cmd/js-runtime/version"
	"github.com/flarebyte/ngc-helper/internal/buildinfo"
	"github.com/flarebyte/ngc-helper/internal/funcs"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the js-runtime command. Each subcommand reads one JSON
// document from stdin and writes one JSON line to stdout.
func NewRootCmd() *cobra.Command {
	flags := &runtimeFlags{}
	cmd := &cobra.Command{
		Use:           "js-runtime <new-function|execute>",
		Short:         "Register and execute dynamically compiled functions",
		Args:          cobra.ArbitraryArgs,
		Version:       buildinfo.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The payload is parsed before the command is looked at, so
			// malformed input is reported even for an unknown command.
			if _, err := funcs.ReadPayload(cmd.InOrStdin()); err != nil {
				return err
			}
			name := "undefined"
			if len(args) > 0 {
				name = args[0]
			}
			return &funcs.Error{Kind: funcs.InvalidInput, Message: fmt.Sprintf("Unknown command: %s", name)}
		},
	}
	cmd.SetVersionTemplate("js-runtime {{.Version}}\n")
	// "help" and "completion" must reach RunE like any other unknown name.
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	flags.bind(cmd)

	cmd.AddCommand(newFunctionCmd(flags))
	cmd.AddCommand(executeCmd(flags))
	cmd.AddCommand(version.NewCmd("js-runtime"))
	return cmd
}

func newFunctionCmd(flags *runtimeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "new-function",
		Short: "Register {args, body} and print {functionId, source}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := funcs.ReadPayload(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var req funcs.RegisterRequest
			if err := funcs.Decode(raw, &req); err != nil {
				return err
			}
			ctx, reg, closeFn, err := flags.registry(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			out, err := reg.Register(ctx, req)
			if err != nil {
				return err
			}
			return funcs.WriteResponse(cmd.OutOrStdout(), out)
		},
	}
}

func executeCmd(flags *runtimeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "execute",
		Short: "Execute {functionId?, args?, source?} and print {result}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := funcs.ReadPayload(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var req funcs.ExecuteRequest
			if err := funcs.Decode(raw, &req); err != nil {
				return err
			}
			ctx, reg, closeFn, err := flags.registry(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			out, err := reg.Execute(ctx, req)
			if err != nil {
				return err
			}
			return funcs.WriteResponse(cmd.OutOrStdout(), out)
		},
	}
}

// Execute runs the command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(os.Stdin)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(context.Background())
}
