// # go-autohelp
//
// `go-autohelp` scrapes the `--help` output of command-line clients and turns
// it into DocBook 5 chapters, one `ch_cli_<client>_commands.xml` file per
// client. It was written for the OpenStack python clients and knows their
// help layouts; it is not a general help parser.
//
// For each client it:
//
//   - runs `<client> --help` and copies the usage banner into a `<screen>`,
//   - turns the `Positional arguments`, `Optional arguments` and
//     `Commands for API v2.0` lists into `<variablelist>`s, each in its
//     own `<section>`,
//   - copies an `Examples:` block verbatim,
//   - lists the subcommands with `<client> bash-completion` (or takes them from
//     the client table), drops the blacklisted ones and documents each from
//     `<client> help <subcommand>` in a `<section>` of its own.
//
// ## Usage
//
//	go-autohelp [flags] [client]
//
// Examples:
//
//   - Document nova into the current directory:
//
//     go-autohelp nova
//
//   - Document every client of the table into ./generated:
//
//     go-autohelp --all -o ./generated
//
//   - Print the swift chapter:
//
//     go-autohelp -o - swift
//
// ## Flags
//
//   - `--all`: document every client, in table order. A failing client stops
//     the run; chapters already written stay on disk.
//   - `-o DIR`: output directory (default `.`), `-` for stdout.
//   - `--clients FILE`: YAML file that overrides or extends the client table.
//     Defaults to `$AUTOHELP_CLIENTS`, which may be set in a `.env` file.
//   - `--strict`: fail instead of warning when help output does not parse
//     cleanly (missing markers, empty tables, stray description lines).
//   - `--log-level LEVEL`: trace, debug, info, warn or error.
//
// ## Client table
//
// A client table file looks like:
//
//	clients:
//	  - name: openstack
//	    api_name: OpenStack API
//	    blacklist: [complete]
//	    subcommands: [server-list, server-show]
//	    subcommand_help: "{command} {subcommand} --help"
//
// `subcommand_help` defaults to `{command} help {subcommand}`.
//
// ## Heuristics
//
// A help line starting at column 0 is a section marker or noise. Indented
// lines are entries; lines indented by eight or more spaces continue the
// previous entry's description. An entry's term grows greedily: option
// values (`PORT`, `<seconds>`, `{a,b}`, `[...]`) and further flags are part of
// the term, `DEPRECATED` never is.
package main
