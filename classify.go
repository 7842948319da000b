package main

import "strings"

// continuationIndent is the indentation at which an indented line is read as
// more description for the previous entry instead of a new entry.
const continuationIndent = "        "

type lineKind int

const (
	lineBlank lineKind = iota
	lineMarker
	lineText
	lineEntry
	lineContinuation
)

type marker int

const (
	markerNone marker = iota
	markerPositional
	markerOptional
	markerAPIv2
	markerExamples
	markerSubcommands
)

func (m marker) String() string {
	switch m {
	case markerPositional:
		return "positional arguments"
	case markerOptional:
		return "optional arguments"
	case markerAPIv2:
		return "API v2.0 commands"
	case markerExamples:
		return "examples"
	case markerSubcommands:
		return "<subcommands>"
	default:
		return "none"
	}
}

type markerRule struct {
	marker   marker
	contains string
	prefixes []string
}

func (r markerRule) match(line string) bool {
	if r.contains != "" {
		return strings.Contains(line, r.contains)
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// commandMarkers is evaluated in order against zero-indent lines of a
// client's top-level help; the first rule that matches wins.
var commandMarkers = []markerRule{
	{marker: markerPositional, contains: "Positional arguments"},
	{marker: markerOptional, prefixes: []string{"Optional arguments:", "Optional:", "Options:", "optional arguments"}},
	{marker: markerAPIv2, prefixes: []string{"Commands for API v2.0:"}},
	{marker: markerExamples, prefixes: []string{"Examples:"}},
	{marker: markerSubcommands, contains: "<subcommands>"},
}

// classifyCommandLine assigns a role to one line of top-level help output.
func classifyCommandLine(line string) (lineKind, marker) {
	if line == "" {
		return lineBlank, markerNone
	}
	if line[0] != ' ' {
		for _, rule := range commandMarkers {
			if rule.match(line) {
				return lineMarker, rule.marker
			}
		}
		return lineText, markerNone
	}
	if strings.TrimSpace(line) == "" {
		return lineBlank, markerNone
	}
	if isContinuation(line) {
		return lineContinuation, markerNone
	}
	return lineEntry, markerNone
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, continuationIndent)
}

// argumentsMarker identifies the argument headings of a subcommand's help.
type argumentsMarker int

const (
	argsNone argumentsMarker = iota
	argsPositional
	argsOptional
	argsGeneric
)

func (m argumentsMarker) title() string {
	switch m {
	case argsPositional:
		return "Positional arguments"
	case argsOptional:
		return "Optional arguments"
	default:
		return "Arguments"
	}
}

func classifyArgumentsLine(line string) argumentsMarker {
	if !hasAnyPrefix(line, "Arguments:", "Positional arguments:", "positional arguments",
		"Optional arguments", "optional arguments") {
		return argsNone
	}
	switch {
	case hasAnyPrefix(line, "Positional arguments", "positional arguments"):
		return argsPositional
	case hasAnyPrefix(line, "Optional arguments:", "optional arguments"):
		return argsOptional
	default:
		return argsGeneric
	}
}

// isPlaceholderLine reports whether line only holds a lone placeholder such
// as "  <subcommand>", the banner some clients print above their command list.
func isPlaceholderLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 1 || line == "" || line[0] != ' ' {
		return false
	}
	tok := fields[0]
	return strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// splitHelpLines splits raw help output into lines, dropping carriage returns.
func splitHelpLines(output string) []string {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
