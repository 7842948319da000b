package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

const rootLongDesc = `
go-autohelp runs the --help output of command-line clients through a set of
heuristics and writes it out as DocBook XML, one chapter per client:

  • the usage banner becomes a screen, the option and command lists become
    variablelists (positional arguments, optional arguments, API v2.0 commands)
  • every subcommand gets its own section, from "<client> help <subcommand>"
  • subcommands are discovered with "<client> bash-completion" unless the
    client table lists them

Each chapter is written to ch_cli_<client>_commands.xml. Pass a client name
to document one client or --all to document every client of the table in order.
`

func newRootCmd(stdout, stderr io.Writer, runner helpRunner) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr, runner: runner}
	cmd := &cobra.Command{
		Use:           "go-autohelp [flags] [client]",
		Short:         "Generate DocBook chapters from command-line client help",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return newClientTable(defaultClients()).Names(), cobra.ShellCompDirectiveNoFileComp
		},
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.BoolVar(&app.opts.all, "all", false, "document all clients of the table")
	flags.StringVarP(&app.opts.outputDir, "output-dir", "o", ".", "directory for the chapter files (- writes a single client to stdout)")
	flags.BoolVar(&app.opts.strict, "strict", false, "fail when the help output does not parse cleanly")
	cmd.PersistentFlags().StringVar(&app.opts.clientsPath, "clients", "", "YAML file extending the client table (default $"+clientsEnvVar+")")
	cmd.PersistentFlags().StringVar(&app.opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx, args)
	}

	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func newClientsCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clients",
		Short:         "List the clients that can be documented",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		table, err := loadClientTable(app.opts.clientsPath)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CLIENT\tAPI\tSUBCOMMANDS")
		for _, c := range table.All() {
			source := "bash-completion"
			if len(c.Subcommands) > 0 {
				source = fmt.Sprintf("%d listed", len(c.Subcommands))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.APIName, source)
		}
		return tw.Flush()
	}
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for go-autohelp.

The output should be evaluated by your shell. For example:

  # bash
  go-autohelp completion bash > /usr/local/etc/bash_completion.d/go-autohelp

  # zsh
  go-autohelp completion zsh > "${fpath[1]}/_go-autohelp"

  # fish
  go-autohelp completion fish | source

  # PowerShell
  go-autohelp completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	var man bool
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file (or, with --man, a man page) per command.

Example:

  go-autohelp gen-docs ./docs/cli
  go-autohelp gen-docs --man ./docs/man
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&man, "man", false, "write man pages instead of Markdown")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		if man {
			header := &cobradoc.GenManHeader{Title: "GO-AUTOHELP", Section: "1", Source: "go-autohelp " + Version}
			return cobradoc.GenManTree(root, header, target)
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
