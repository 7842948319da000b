package main

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner answers client invocations from canned output keyed by the
// full command line. Unknown command lines fail like a client would.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, key)
	out, ok := f.outputs[key]
	if !ok {
		return "", &ExitError{Cmd: key, Code: 2, Stderr: "error: unknown command"}
	}
	return out, nil
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	return string(data)
}

func novaRunner(t *testing.T) *fakeRunner {
	limits := "usage: nova absolute-limits\n\nPrint a list of absolute limits for a user\n\n" +
		"Optional arguments:\n  --tenant [<tenant>]  Display information from single tenant (Admin only).\n"
	return &fakeRunner{outputs: map[string]string{
		"nova --help":               readTestdata(t, "nova-help.txt"),
		"nova bash-completion":      "absolute-limits boot add-floating-ip help --debug boot\n",
		"nova help boot":            readTestdata(t, "nova-boot-help.txt"),
		"nova help absolute-limits": limits,
	}}
}

func TestDocumentClientWritesChapter(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	tmp := t.TempDir()
	runner := novaRunner(t)
	if err := runWith([]string{"-o", tmp, "nova"}, io.Discard, io.Discard, runner); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(tmp, "ch_cli_nova_commands.xml"))
	if err != nil {
		t.Fatalf("read chapter: %v", err)
	}
	out := string(content)
	assertWellFormed(t, out)
	assertContains(t, out, `xml:id="novaclient_commands"`)
	assertContains(t, out, "OpenStack Compute API and its extensions.")
	assertContains(t, out, `<section xml:id="novaclient_command_usage">`)
	assertContains(t, out, "<screen><computeroutput>usage: nova [--version]")
	assertContains(t, out, "<title>Subcommands</title>")
	assertContains(t, out, `<section xml:id="novaclient_command_optional">`)
	assertContains(t, out, "<term><command>--os-username &lt;auth-user-name&gt;</command></term>")
	assertContains(t, out, "Defaults to <code>env[OS_USERNAME]</code>.")
	assertContains(t, out, "<emphasis>DEPRECATED!</emphasis> Use --os-cache-enabled instead.")
	assertContains(t, out, `<section xml:id="novaclient_subcommand_absolute-limits">`)
	assertContains(t, out, `<section xml:id="novaclient_subcommand_boot">`)
	assertContains(t, out, "<title>nova boot command</title>")
	assertOrder(t, out, "novaclient_subcommand_absolute-limits", "novaclient_subcommand_boot")
	if strings.Contains(out, "add-floating-ip command") {
		t.Fatalf("blacklisted subcommand was documented\n\n%s", out)
	}
	if strings.Contains(out, "nova help command") {
		t.Fatalf("help subcommand was documented\n\n%s", out)
	}
	if !strings.HasSuffix(out, "</chapter>\n") {
		t.Fatalf("chapter not closed\n\n%s", out)
	}
	for _, call := range runner.calls {
		if call == "nova help add-floating-ip" || call == "nova help --debug" {
			t.Fatalf("unexpected invocation %q", call)
		}
	}
}

func TestCustomClientToStdout(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	runner := &fakeRunner{outputs: map[string]string{
		"foo --help": "usage: foo [--help]\n\nOptional arguments:\n" +
			"  -h, --help          show help\n" +
			"  --name NAME          set the name\n",
	}}
	clients := filepath.Join(t.TempDir(), "clients.yaml")
	writeFile(t, clients, "clients:\n  - name: foo\n    api_name: Foo API\n    subcommands: [help]\n")

	var buf bytes.Buffer
	if err := runWith([]string{"--clients", clients, "-o", "-", "foo"}, &buf, io.Discard, runner); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertWellFormed(t, out)
	assertContains(t, out, "<screen><computeroutput>usage: foo [--help]\n</computeroutput></screen>")
	assertContains(t, out, "<title>foo optional arguments</title>")
	assertContains(t, out, "<term><command>-h, --help</command></term>")
	assertContains(t, out, "<term><command>--name NAME</command></term>")
	assertOrder(t, out, "</screen>", "foo optional arguments")
	if n := strings.Count(out, "<varlistentry>"); n != 2 {
		t.Fatalf("expected 2 varlistentry elements, got %d\n\n%s", n, out)
	}
}

func TestUnknownClient(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	tmp := t.TempDir()
	runner := &fakeRunner{}
	err := runWith([]string{"-o", tmp, "nosuchclient"}, io.Discard, io.Discard, runner)
	var unknown *UnknownClientError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownClientError, got %v", err)
	}
	if unknown.Name != "nosuchclient" {
		t.Fatalf("unexpected client name %q", unknown.Name)
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no output files, got %v", entries)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no client invocation, got %v", runner.calls)
	}
}

func TestClientArgumentRequired(t *testing.T) {
	if err := runWith(nil, io.Discard, io.Discard, &fakeRunner{}); err == nil {
		t.Fatalf("expected error without client argument")
	}
	if err := runWith([]string{"--all", "nova"}, io.Discard, io.Discard, &fakeRunner{}); err == nil {
		t.Fatalf("expected error for --all with a client argument")
	}
	if err := runWith([]string{"--all", "-o", "-"}, io.Discard, io.Discard, &fakeRunner{}); err == nil {
		t.Fatalf("expected error for --all writing to stdout")
	}
	runner := &fakeRunner{}
	if err := runWith([]string{"--log-level", "loud", "nova"}, io.Discard, io.Discard, runner); err == nil {
		t.Fatalf("expected error for an unknown log level")
	}
	if len(runner.calls) > 0 {
		t.Fatalf("expected no client invocation, got %v", runner.calls)
	}
}

func TestSwiftSubcommandHelpTemplate(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	runner := &fakeRunner{outputs: map[string]string{
		"swift --help": readTestdata(t, "swift-help.txt"),
	}}
	for _, sub := range []string{"delete", "download", "list", "post", "stat", "upload"} {
		runner.outputs["swift "+sub+" --help"] = "Usage: swift " + sub + " [options]\n\n" +
			"Positional arguments:\n  <container>           Name of container.\n"
	}
	var buf bytes.Buffer
	if err := runWith([]string{"-o", "-", "swift"}, &buf, io.Discard, runner); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertWellFormed(t, out)
	assertContains(t, out, `<section xml:id="swiftclient_command_examples">`)
	assertContains(t, out, "<title>swift examples</title>")
	assertContains(t, out, "swift -A https://auth.api.rackspacecloud.com/v1.0")
	assertContains(t, out, `<section xml:id="swiftclient_subcommand_upload">`)
	assertOrder(t, out, "swiftclient_command_examples", "swiftclient_command_optional")
	for _, call := range runner.calls {
		if call == "swift bash-completion" {
			t.Fatalf("swift subcommands are listed and must not be discovered")
		}
	}
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	tmp := t.TempDir()
	runner := &fakeRunner{outputs: map[string]string{
		"ceilometer --help":          "usage: ceilometer\n\nOptional arguments:\n  --debug  Print debugging output\n",
		"ceilometer bash-completion": "alarm-create meter-list\n",
		"ceilometer help meter-list": "usage: ceilometer meter-list\n\nList the user's meters.\n\n" +
			"Optional arguments:\n  -q <QUERY>, --query <QUERY>\n                        key[op]value; list.\n",
	}}
	err := runWith([]string{"--all", "-o", tmp}, io.Discard, io.Discard, runner)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Cmd != "cinder --help" {
		t.Fatalf("expected cinder to fail, got %q", exitErr.Cmd)
	}
	content, err := os.ReadFile(filepath.Join(tmp, "ch_cli_ceilometer_commands.xml"))
	if err != nil {
		t.Fatalf("ceilometer chapter missing: %v", err)
	}
	assertWellFormed(t, string(content))
	assertContains(t, string(content), "<term><command>-q &lt;QUERY&gt;, --query &lt;QUERY&gt;</command></term>")
	if _, err := os.Stat(filepath.Join(tmp, "ch_cli_cinder_commands.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no cinder chapter, got %v", err)
	}
}

func TestStrictModeFailsOnWarnings(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	runner := &fakeRunner{outputs: map[string]string{
		"trove --help":          "usage: trove [--version]\n",
		"trove bash-completion": "",
	}}
	if err := runWith([]string{"-o", "-", "trove"}, io.Discard, io.Discard, runner); err != nil {
		t.Fatalf("non-strict run: %v", err)
	}
	err := runWith([]string{"--strict", "-o", "-", "trove"}, io.Discard, io.Discard, runner)
	if err == nil || !strings.Contains(err.Error(), "strict") {
		t.Fatalf("expected strict mode failure, got %v", err)
	}
}

func TestClientsFileExtendsTable(t *testing.T) {
	t.Setenv(clientsEnvVar, filepath.Join("testdata", "clients.yaml"))
	runner := &fakeRunner{outputs: map[string]string{
		"openstack --help": "usage: openstack\n\nOptions:\n  --os-cloud <cloud>  Cloud name in clouds.yaml\n",
		"openstack server-list --help": "usage: openstack server list\n\nList servers\n\n" +
			"optional arguments:\n  --long  List additional fields in output\n",
		"openstack server-show --help": "usage: openstack server show <server>\n\nShow server details\n\n" +
			"positional arguments:\n  <server>  Server (name or ID)\n",
	}}
	var buf bytes.Buffer
	if err := runWith([]string{"-o", "-", "openstack"}, &buf, io.Discard, runner); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertWellFormed(t, out)
	assertContains(t, out, "for the\n         OpenStack API and its extensions.")
	assertContains(t, out, "<title>openstack optional arguments</title>")
	assertContains(t, out, `<section xml:id="openstackclient_subcommand_server-list">`)
	assertContains(t, out, "<title>Positional arguments</title>")
}

func TestClientsCommand(t *testing.T) {
	t.Setenv(clientsEnvVar, "")
	var buf bytes.Buffer
	if err := runWith([]string{"clients"}, &buf, io.Discard, &fakeRunner{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "CLIENT")
	assertContains(t, out, "OpenStack Object Storage API")
	assertOrder(t, out, "nova ", "neutron ")
	assertOrder(t, out, "ceilometer", "trove")
}

func TestHelpFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"--help"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "go-autohelp [flags] [client]")
	assertContains(t, out, "--all")
	assertContains(t, out, "completion  Generate shell completion scripts")
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"completion", "bash"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected completion output")
	}
	assertContains(t, buf.String(), "__start_go-autohelp")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	if err := run([]string{"gen-docs", tmp}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	assertDirHas(t, tmp, "go-autohelp.md")

	manDir := t.TempDir()
	if err := run([]string{"gen-docs", "--man", manDir}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	assertDirHas(t, manDir, "go-autohelp.1")
}

func assertDirHas(t *testing.T, dir, name string) {
	t.Helper()
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, f := range files {
		if f.Name() == name {
			return
		}
	}
	t.Fatalf("expected %s in %s, got %v", name, dir, files)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\n%s", needle, haystack)
	}
}

func assertOrder(t *testing.T, text, first, second string) {
	t.Helper()
	i := strings.Index(text, first)
	j := strings.Index(text, second)
	if i == -1 || j == -1 {
		t.Fatalf("missing %q or %q\n\n%s", first, second, text)
	}
	if j <= i {
		t.Fatalf("expected %q to appear after %q\n\n%s", second, first, text)
	}
}

// assertWellFormed fails unless text parses as XML with balanced elements.
func assertWellFormed(t *testing.T, text string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(text))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v\n\n%s", err, text)
		}
	}
}
