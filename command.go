package main

import (
	"fmt"
	"strings"
)

// commandState is the region of a client's top-level help being read.
type commandState int

const (
	stateUsageScreen commandState = iota
	stateSubcommandsTable
	stateOptionalTable
	stateAPIv2Table
	stateExamples
)

// verbatim reports whether lines read in this state are copied into a screen.
// The table states have already consumed their lines when the marker fired.
func (s commandState) verbatim() bool {
	return s == stateUsageScreen || s == stateExamples
}

type commandTransition struct {
	next commandState
	// section is the xml:id suffix of a new section; empty keeps the
	// current one.
	section      string
	sectionTitle string
	table        bool
	tableTitle   string
	// skipPlaceholder drops a lone "<subcommand>" line below the marker.
	skipPlaceholder bool
}

var commandTransitions = map[marker]commandTransition{
	markerPositional: {
		next:            stateSubcommandsTable,
		table:           true,
		tableTitle:      "Subcommands",
		skipPlaceholder: true,
	},
	markerOptional: {
		next:         stateOptionalTable,
		section:      "optional",
		sectionTitle: "%s optional arguments",
		table:        true,
	},
	markerAPIv2: {
		next:         stateAPIv2Table,
		section:      "api_2_0",
		sectionTitle: "%s API v2.0 commands",
		table:        true,
	},
	markerExamples: {
		next:         stateExamples,
		section:      "examples",
		sectionTitle: "%s examples",
	},
	markerSubcommands: {
		next: stateUsageScreen,
	},
}

// writeCommand converts the output of "<client> --help". It runs inside the
// usage section opened by writeHeading and closes the last section it is in.
func (w *docbookWriter) writeCommand(client string, lines []string) {
	state := stateUsageScreen
	markers := 0
	for i, line := range lines {
		kind, m := classifyCommandLine(line)
		switch kind {
		case lineBlank:
			continue
		case lineMarker:
			markers++
			tr := commandTransitions[m]
			if tr.section != "" {
				w.openSection(
					fmt.Sprintf("%sclient_command_%s", client, tr.section),
					fmt.Sprintf(tr.sectionTitle, client),
				)
			}
			if tr.table {
				rest := lines[i+1:]
				if tr.skipPlaceholder && len(rest) > 0 && isPlaceholderLine(rest[0]) {
					rest = rest[1:]
				}
				w.writeTable(parseTable(tr.tableTitle, rest))
			}
			state = tr.next
		default:
			if state.verbatim() {
				w.screenLine(line)
			}
		}
	}
	if markers == 0 {
		w.warn("no section markers found in help output", "client", client)
	}
	w.closeSection()
}

// subcommandState is the region of a subcommand's help being read: the usage
// screen, the description prose, or the part past the positional arguments.
type subcommandState int

const (
	subScreen subcommandState = iota
	subParagraph
	subArguments
)

type subcommandEvent int

const (
	eventText subcommandEvent = iota
	eventBlank
	eventPositional
)

var subcommandTransitions = map[subcommandState]map[subcommandEvent]subcommandState{
	subScreen: {
		eventText:       subScreen,
		eventBlank:      subParagraph,
		eventPositional: subArguments,
	},
	subParagraph: {
		eventText:       subParagraph,
		eventBlank:      subParagraph,
		eventPositional: subArguments,
	},
	subArguments: {
		eventText:       subArguments,
		eventBlank:      subArguments,
		eventPositional: subArguments,
	},
}

// writeSubcommand converts the help of one subcommand into its own section.
// A blank line ends the usage screen and each following paragraph; the
// optional (or generic) arguments table ends the section.
func (w *docbookWriter) writeSubcommand(client, subcommand string, lines []string) {
	w.openSection(
		fmt.Sprintf("%sclient_subcommand_%s", client, subcommand),
		fmt.Sprintf("%s %s command", client, subcommand),
	)
	state := subScreen
	tables := 0
scan:
	for i, line := range lines {
		if m := classifyArgumentsLine(line); m != argsNone {
			tables++
			w.writeTable(parseTable(m.title(), lines[i+1:]))
			if m != argsPositional {
				break scan
			}
			state = subcommandTransitions[state][eventPositional]
			continue
		}
		if strings.TrimSpace(line) == "" {
			if state == subScreen && w.block != blockScreen {
				// Leading blank lines before the usage text.
				continue
			}
			if state != subArguments {
				w.closeBlock()
			}
			state = subcommandTransitions[state][eventBlank]
			continue
		}
		switch state {
		case subScreen:
			w.screenLine(line)
		case subParagraph:
			w.paraLine(line)
		}
		state = subcommandTransitions[state][eventText]
	}
	if tables == 0 {
		w.warn("no arguments section found in subcommand help", "client", client, "subcommand", subcommand)
	}
	w.closeSection()
}
