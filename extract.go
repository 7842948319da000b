package main

import (
	"strings"
	"unicode"
)

// Entry is one documented command or option: its signature and the
// description printed next to or below it.
type Entry struct {
	Term        string
	Description string
	// More holds description lines found on deeper-indented lines below
	// the entry.
	More []string
}

// Table is a run of entries collected below a section marker.
type Table struct {
	Title   string
	Entries []Entry
	// Orphans counts continuation lines that appeared before any entry.
	Orphans int
}

// isOptionValue reports whether tok reads as the value placeholder of an
// option, e.g. PORT or NAME_OR_ID.
func isOptionValue(tok string) bool {
	for _, r := range tok {
		if !unicode.IsUpper(r) && r != '_' && r != ',' {
			return false
		}
	}
	return !strings.HasPrefix(tok, "DEPRECATED")
}

func looksLikeOption(tok string) bool {
	return hasAnyPrefix(tok, "-", "<", "{", "[") || isOptionValue(tok)
}

// extractOptions splits an entry line into its term and description. It
// handles, among others:
//
//	--version
//	--timeout <seconds>
//	--service <service>, --service-id <service>
//	-v, --verbose
//	-p PORT, --port PORT
//	<backup>              ID of the backup to restore.
//	--alarm-action <Webhook URL>
//	<NAME or ID>  Name or ID of stack to resume.
func extractOptions(line string) Entry {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Entry{}
	}
	if len(words) == 1 {
		return Entry{Term: words[0]}
	}

	first, second := words[0], words[1]
	if !strings.Contains(first, "<") &&
		!strings.Contains(second, "<") &&
		!strings.Contains(second, "--") &&
		!looksLikeOption(second) {
		return Entry{
			Term:        first,
			Description: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), first)),
		}
	}

	lastWasOption := strings.HasPrefix(first, "-")

	// Rejoin placeholders that contain spaces, e.g. <Webhook URL>.
	for i := 0; i < len(words)-1; {
		if strings.Contains(words[i], "<") && !strings.Contains(words[i], ">") {
			words[i] += " " + words[i+1]
			words = append(words[:i+1], words[i+2:]...)
			continue
		}
		i++
	}

	for len(words) > 1 {
		next := words[1]
		if strings.HasPrefix(next, "DEPRECATED") {
			break
		}
		if lastWasOption {
			if !looksLikeOption(next) {
				break
			}
		} else if !strings.HasPrefix(next, "-") {
			break
		}
		words[0] += " " + next
		words = append(words[:1], words[2:]...)
	}

	return Entry{
		Term:        words[0],
		Description: strings.Join(words[1:], " "),
	}
}

// parseTable collects the entries of an indented block. It stops at the first
// blank or zero-indent line.
func parseTable(title string, lines []string) Table {
	table := Table{Title: title}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || line[0] != ' ' {
			break
		}
		if isContinuation(line) {
			text := strings.TrimLeft(line, " ")
			if len(table.Entries) == 0 {
				table.Orphans++
				continue
			}
			last := &table.Entries[len(table.Entries)-1]
			last.More = append(last.More, text)
			continue
		}
		entry := extractOptions(line)
		if entry.Term == "" {
			break
		}
		table.Entries = append(table.Entries, entry)
	}
	return table
}
