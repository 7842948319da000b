package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// clientsEnvVar names a YAML file that extends the built-in client table.
const clientsEnvVar = "AUTOHELP_CLIENTS"

const defaultSubcommandHelp = "{command} help {subcommand}"

// Client describes how one command-line client is documented.
type Client struct {
	Name    string `yaml:"name"`
	APIName string `yaml:"api_name"`
	// Blacklist lists subcommands that are never documented.
	Blacklist []string `yaml:"blacklist,omitempty"`
	// Subcommands replaces bash-completion discovery when set.
	Subcommands []string `yaml:"subcommands,omitempty"`
	// SubcommandHelp is the command line that prints a subcommand's help,
	// with {command} and {subcommand} placeholders.
	SubcommandHelp string `yaml:"subcommand_help,omitempty"`
}

// UnknownClientError is returned for a client name missing from the table.
type UnknownClientError struct {
	Name string
}

func (e *UnknownClientError) Error() string {
	return fmt.Sprintf("unknown client %q (not yet handled)", e.Name)
}

// clientTable is the ordered set of documentable clients. Its order is the
// order used by --all.
type clientTable struct {
	clients []Client
}

func defaultClients() []Client {
	return []Client{
		{
			Name:      "ceilometer",
			APIName:   "OpenStack Telemetry API",
			Blacklist: []string{"alarm-create"},
		},
		{
			Name:    "cinder",
			APIName: "OpenStack Block Storage API",
		},
		{
			// glance has no bash-completion command.
			Name:    "glance",
			APIName: "OpenStack Image Service API",
			Subcommands: []string{
				"image-create", "image-delete", "image-list", "image-show",
				"image-update", "member-create", "member-delete", "member-list",
			},
		},
		{
			Name:    "heat",
			APIName: "OpenStack Orchestration API",
			Blacklist: []string{
				"create", "delete", "describe", "event", "gettemplate",
				"list", "resource", "update", "validate",
			},
		},
		{
			Name:    "keystone",
			APIName: "OpenStack Identity API",
		},
		{
			Name:      "nova",
			APIName:   "OpenStack Compute API",
			Blacklist: []string{"add-floating-ip", "remove-floating-ip"},
		},
		{
			Name:    "neutron",
			APIName: "OpenStack Networking API",
		},
		{
			Name:           "swift",
			APIName:        "OpenStack Object Storage API",
			Subcommands:    []string{"delete", "download", "list", "post", "stat", "upload"},
			SubcommandHelp: "{command} {subcommand} --help",
		},
		{
			Name:    "trove",
			APIName: "OpenStack Database API",
		},
	}
}

func newClientTable(clients []Client) *clientTable {
	t := &clientTable{}
	for _, c := range clients {
		t.put(c)
	}
	return t
}

// put adds c, replacing an existing client of the same name in place.
func (t *clientTable) put(c Client) {
	if c.SubcommandHelp == "" {
		c.SubcommandHelp = defaultSubcommandHelp
	}
	for i := range t.clients {
		if t.clients[i].Name == c.Name {
			t.clients[i] = c
			return
		}
	}
	t.clients = append(t.clients, c)
}

// Lookup returns the client with the given name.
func (t *clientTable) Lookup(name string) (Client, error) {
	for _, c := range t.clients {
		if c.Name == name {
			return c, nil
		}
	}
	return Client{}, &UnknownClientError{Name: name}
}

// All returns the clients in documentation order.
func (t *clientTable) All() []Client {
	return append([]Client(nil), t.clients...)
}

func (t *clientTable) Names() []string {
	names := make([]string, 0, len(t.clients))
	for _, c := range t.clients {
		names = append(names, c.Name)
	}
	return names
}

type clientsFile struct {
	Clients []Client `yaml:"clients"`
}

// loadClientTable builds the client table from the built-in defaults and,
// when given, a YAML file whose entries override or extend them. When path is
// empty the file named by AUTOHELP_CLIENTS is used, after loading a .env file
// from the working directory if one exists.
func loadClientTable(path string) (*clientTable, error) {
	table := newClientTable(defaultClients())
	if path == "" {
		_ = godotenv.Load()
		path = os.Getenv(clientsEnvVar)
	}
	if path == "" {
		return table, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client table %s: %w", path, err)
	}
	var file clientsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing client table %s: %w", path, err)
	}
	for _, c := range file.Clients {
		table.put(c)
	}
	if err := table.validate(); err != nil {
		return nil, fmt.Errorf("invalid client table %s: %w", path, err)
	}
	return table, nil
}

var clientNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func (t *clientTable) validate() error {
	var errs []error
	for _, c := range t.clients {
		if !clientNamePattern.MatchString(c.Name) {
			errs = append(errs, fmt.Errorf("invalid client name %q", c.Name))
			continue
		}
		if strings.TrimSpace(c.APIName) == "" {
			errs = append(errs, fmt.Errorf("client %s: missing api_name", c.Name))
		}
		if !strings.Contains(c.SubcommandHelp, "{subcommand}") {
			errs = append(errs, fmt.Errorf("client %s: subcommand_help must contain {subcommand}", c.Name))
		}
	}
	return errors.Join(errs...)
}

// implicitBlacklist holds subcommands no client documents.
var implicitBlacklist = []string{"bash-completion", "complete", "help"}

// selectSubcommands filters candidates down to the documentable subcommands
// of c, sorted by name.
func (c Client) selectSubcommands(candidates []string) []string {
	excluded := make(map[string]struct{}, len(c.Blacklist)+len(implicitBlacklist))
	for _, name := range c.Blacklist {
		excluded[name] = struct{}{}
	}
	for _, name := range implicitBlacklist {
		excluded[name] = struct{}{}
	}
	var selected []string
	for _, name := range candidates {
		if strings.HasPrefix(name, "-") {
			continue
		}
		if _, ok := excluded[name]; ok {
			continue
		}
		excluded[name] = struct{}{}
		selected = append(selected, name)
	}
	sort.Strings(selected)
	return selected
}
