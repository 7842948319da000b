package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// helpRunner runs a client command and returns what it printed on stdout.
type helpRunner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExitError wraps a non-zero exit of a client command.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Cmd, e.Code, e.Stderr)
}

// execRunner runs clients as child processes.
type execRunner struct {
	// Env is appended to the inherited environment.
	Env []string
}

func (r *execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &ExitError{
				Cmd:    strings.TrimSpace(name + " " + strings.Join(args, " ")),
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("running %s: %w", name, err)
	}
	return stdout.String(), nil
}

func commandHelp(ctx context.Context, r helpRunner, c Client) ([]string, error) {
	out, err := r.Output(ctx, c.Name, "--help")
	if err != nil {
		return nil, err
	}
	return splitHelpLines(out), nil
}

// subcommandArgs expands the client's subcommand help template into a
// command line. Placeholders are substituted after splitting, so a value is
// always a single argument.
func subcommandArgs(c Client, subcommand string) ([]string, error) {
	tmpl := c.SubcommandHelp
	if tmpl == "" {
		tmpl = defaultSubcommandHelp
	}
	words, err := shellwords.Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing subcommand help template %q: %w", tmpl, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty subcommand help template for %s", c.Name)
	}
	replacer := strings.NewReplacer("{command}", c.Name, "{subcommand}", subcommand)
	for i, w := range words {
		words[i] = replacer.Replace(w)
	}
	return words, nil
}

func subcommandHelp(ctx context.Context, r helpRunner, c Client, subcommand string) ([]string, error) {
	argv, err := subcommandArgs(c, subcommand)
	if err != nil {
		return nil, err
	}
	out, err := r.Output(ctx, argv[0], argv[1:]...)
	if err != nil {
		return nil, err
	}
	return splitHelpLines(out), nil
}

// discoverSubcommands returns the subcommands to document for c: its
// configured list, or the words printed by "<client> bash-completion".
func discoverSubcommands(ctx context.Context, r helpRunner, c Client) ([]string, error) {
	candidates := c.Subcommands
	if len(candidates) == 0 {
		out, err := r.Output(ctx, c.Name, "bash-completion")
		if err != nil {
			return nil, err
		}
		candidates = strings.Fields(out)
	}
	return c.selectSubcommands(candidates), nil
}
