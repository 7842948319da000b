package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

type options struct {
	all         bool
	outputDir   string
	clientsPath string
	strict      bool
	logLevel    string
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	runner helpRunner
	opts   options
}

func run(argv []string, stdout io.Writer) error {
	return runWith(argv, stdout, os.Stderr, &execRunner{})
}

func runWith(argv []string, stdout, stderr io.Writer, runner helpRunner) error {
	cmd := newRootCmd(stdout, stderr, runner)
	cmd.SetArgs(argv)
	return cmd.Execute()
}

func (app *cliApp) newLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "go-autohelp",
		Level:  hclog.LevelFromString(app.opts.logLevel),
		Output: app.stderr,
	})
}

func (app *cliApp) execute(ctx context.Context, positionals []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := app.opts
	switch {
	case opts.all && len(positionals) > 0:
		return errors.New("--all cannot be combined with a client argument")
	case !opts.all && len(positionals) == 0:
		return errors.New("pass the name of the client to document as argument, or --all")
	case opts.all && opts.outputDir == "-":
		return errors.New("--all writes one file per client and cannot write to stdout")
	case hclog.LevelFromString(opts.logLevel) == hclog.NoLevel:
		return fmt.Errorf("unknown log level %q", opts.logLevel)
	}

	table, err := loadClientTable(opts.clientsPath)
	if err != nil {
		return err
	}
	var clients []Client
	if opts.all {
		clients = table.All()
	} else {
		c, err := table.Lookup(positionals[0])
		if err != nil {
			return err
		}
		clients = []Client{c}
	}

	logger := app.newLogger()
	logger.Info("auto documenting of commands", "version", Version, "clients", len(clients))
	d := &documenter{runner: app.runner, logger: logger, strict: opts.strict}
	for _, c := range clients {
		data, err := d.documentClient(ctx, c)
		if err != nil {
			return fmt.Errorf("documenting %s: %w", c.Name, err)
		}
		path := outputPath(opts.outputDir, c.Name)
		if err := writeOutput(path, app.stdout, data); err != nil {
			return err
		}
		logger.Debug("wrote chapter", "client", c.Name, "path", path)
	}
	return nil
}

// documenter turns the help output of clients into DocBook chapters.
type documenter struct {
	runner helpRunner
	logger hclog.Logger
	strict bool
}

// documentClient renders the complete chapter of one client. Nothing is
// returned if any of the client's commands fails.
func (d *documenter) documentClient(ctx context.Context, c Client) ([]byte, error) {
	logger := d.logger.With("client", c.Name)
	w := newDocbookWriter(logger)

	logger.Info("documenting help", "command", c.Name+" help")
	lines, err := commandHelp(ctx, d.runner, c)
	if err != nil {
		return nil, err
	}
	w.writeHeading(c.Name, c.APIName)
	w.writeCommand(c.Name, lines)

	logger.Info("documenting subcommands")
	subcommands, err := discoverSubcommands(ctx, d.runner, c)
	if err != nil {
		return nil, fmt.Errorf("listing subcommands: %w", err)
	}
	for _, sub := range subcommands {
		lines, err := subcommandHelp(ctx, d.runner, c, sub)
		if err != nil {
			return nil, fmt.Errorf("subcommand %s: %w", sub, err)
		}
		w.writeSubcommand(c.Name, sub, lines)
	}
	logger.Info("subcommands documented", "count", len(subcommands))
	w.writeEnd()

	if d.strict && w.warnings > 0 {
		return nil, fmt.Errorf("%d parse warnings in strict mode", w.warnings)
	}
	logger.Info("finished")
	return w.Bytes(), nil
}

// chapterFileName is the output file name of a client's chapter.
func chapterFileName(client string) string {
	return "ch_cli_" + client + "_commands.xml"
}

func outputPath(dir, client string) string {
	if dir == "-" {
		return dir
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, chapterFileName(client))
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
