package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const chapterHeader = `<?xml version="1.0" encoding="UTF-8"?>
<chapter xmlns="http://docbook.org/ns/docbook"
    xmlns:xi="http://www.w3.org/2001/XInclude"
    xmlns:xlink="http://www.w3.org/1999/xlink" version="5.0"
    xml:id="%[1]sclient_commands">

    <!-- This file is automatically generated, do not edit -->

    <?dbhtml stop-chunking?>

    <title>%[1]s commands</title>
    <para>The %[1]s client is the command-line interface (CLI) for the
         %[2]s and its extensions.</para>
    <para>For help on a specific <command>%[1]s</command>
       command, enter:
    </para>
    <screen><prompt>$</prompt> <userinput><command>%[1]s</command> \
<option>help</option> <replaceable>COMMAND</replaceable></userinput></screen>

`

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// quoteXML escapes a line of help text for use as DocBook character data and
// applies the fixed markup for deprecation notices and env[...] references.
func quoteXML(line string) string {
	line = xmlEscaper.Replace(line)
	if strings.Contains(line, "DEPRECATED!") {
		line = strings.ReplaceAll(line, "DEPRECATED!", "<emphasis>DEPRECATED!</emphasis>")
	} else if strings.Contains(line, "DEPRECATED") {
		line = strings.ReplaceAll(line, "DEPRECATED", "<emphasis>DEPRECATED</emphasis>")
	}
	return wrapEnvRefs(line)
}

// wrapEnvRefs puts each env[NAME] reference in a code element. A reference
// without a closing bracket is left as is.
func wrapEnvRefs(line string) string {
	if !strings.Contains(line, "env[") {
		return line
	}
	var b strings.Builder
	for {
		start := strings.Index(line, "env[")
		if start < 0 {
			break
		}
		end := strings.IndexByte(line[start:], ']')
		if end < 0 {
			break
		}
		end += start + 1
		b.WriteString(line[:start])
		b.WriteString("<code>")
		b.WriteString(line[start:end])
		b.WriteString("</code>")
		line = line[end:]
	}
	b.WriteString(line)
	return b.String()
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// blockState is the verbatim or prose element currently open inside a
// section. At most one is open at a time.
type blockState int

const (
	blockNone blockState = iota
	blockScreen
	blockPara
)

// docbookWriter accumulates one DocBook chapter. It keeps track of the open
// section and block so that every element is closed before a sibling opens.
type docbookWriter struct {
	buf       bytes.Buffer
	block     blockState
	inSection bool
	logger    hclog.Logger
	warnings  int
}

func newDocbookWriter(logger hclog.Logger) *docbookWriter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &docbookWriter{logger: logger}
}

func (w *docbookWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *docbookWriter) warn(msg string, args ...interface{}) {
	w.warnings++
	w.logger.Warn(msg, args...)
}

func (w *docbookWriter) writeHeading(client, apiName string) {
	fmt.Fprintf(&w.buf, chapterHeader, client, attrEscaper.Replace(apiName))
	w.openSection(client+"client_command_usage", client+" usage")
}

func (w *docbookWriter) writeEnd() {
	w.closeSection()
	w.buf.WriteString("</chapter>\n")
}

func (w *docbookWriter) openSection(id, title string) {
	w.closeSection()
	fmt.Fprintf(&w.buf, "    <section xml:id=\"%s\">\n", attrEscaper.Replace(id))
	fmt.Fprintf(&w.buf, "        <title>%s</title>\n", xmlEscaper.Replace(title))
	w.inSection = true
}

func (w *docbookWriter) closeSection() {
	w.closeBlock()
	if !w.inSection {
		return
	}
	w.buf.WriteString("    </section>\n")
	w.inSection = false
}

func (w *docbookWriter) closeBlock() {
	switch w.block {
	case blockScreen:
		w.buf.WriteString("</computeroutput></screen>\n")
	case blockPara:
		w.buf.WriteString("        </para>\n")
	}
	w.block = blockNone
}

// screenLine appends text to the open screen, opening one if needed.
func (w *docbookWriter) screenLine(text string) {
	if w.block != blockScreen {
		w.closeBlock()
		fmt.Fprintf(&w.buf, "        <screen><computeroutput>%s\n", quoteXML(text))
		w.block = blockScreen
		return
	}
	fmt.Fprintf(&w.buf, "%s\n", quoteXML(text))
}

// paraLine appends text to the open paragraph, opening one if needed.
func (w *docbookWriter) paraLine(text string) {
	if w.block != blockPara {
		w.closeBlock()
		w.buf.WriteString("        <para>\n")
		w.block = blockPara
	}
	fmt.Fprintf(&w.buf, "%s\n", quoteXML(text))
}

// writeTable renders table as a variablelist. Tables without entries are
// dropped because DocBook requires at least one varlistentry.
func (w *docbookWriter) writeTable(table Table) {
	w.closeBlock()
	if table.Orphans > 0 {
		w.warn("dropped description lines without a preceding entry", "table", table.Title, "lines", table.Orphans)
	}
	if len(table.Entries) == 0 {
		w.warn("no entries found below section marker", "table", table.Title)
		return
	}
	w.buf.WriteString("  <variablelist wordsize=\"10\">\n")
	if table.Title != "" {
		fmt.Fprintf(&w.buf, "    <title>%s</title>\n", xmlEscaper.Replace(table.Title))
	}
	for _, entry := range table.Entries {
		w.buf.WriteString("  <varlistentry>\n")
		fmt.Fprintf(&w.buf, "    <term><command>%s</command></term>\n", quoteXML(entry.Term))
		w.buf.WriteString("    <listitem>\n")
		w.buf.WriteString("      <para>\n")
		if entry.Description != "" {
			fmt.Fprintf(&w.buf, "        %s\n", quoteXML(entry.Description))
		}
		for _, more := range entry.More {
			fmt.Fprintf(&w.buf, "      %s\n", quoteXML(more))
		}
		w.buf.WriteString("      </para>\n")
		w.buf.WriteString("    </listitem>\n")
		w.buf.WriteString("  </varlistentry>\n")
	}
	w.buf.WriteString(" </variablelist>\n")
}
