package tui

import (
	"slices"
	"strings"

	"github.com/matheus3301/convo/internal/tui/ui"
)

// Command is a parsed ":" command with aliases resolved.
type Command struct {
	Name string
	Args string
}

type commandDef struct {
	name    string
	aliases []string
	usage   string
	help    string
}

var commandTable = []commandDef{
	{name: "open", aliases: []string{"chat", "o"}, usage: "open <name>", help: "Open conversation by name"},
	{name: "pin", usage: "pin", help: "Pin the selected conversation"},
	{name: "unpin", usage: "unpin", help: "Unpin the selected conversation"},
	{name: "delete", aliases: []string{"del"}, usage: "delete", help: "Delete the selected conversation"},
	{name: "read", usage: "read", help: "Mark the selected conversation read"},
	{name: "tag", usage: "tag <all|direct|group>", help: "Select tag"},
	{name: "filter", usage: "filter <text>", help: "Filter by name or preview"},
	{name: "help", aliases: []string{"h"}, usage: "help", help: "Show this help"},
	{name: "quit", aliases: []string{"q", "exit"}, usage: "quit", help: "Quit application"},
}

// ParseCommand parses a command line (without the leading ':'). Unknown
// names are returned lowercased and unresolved.
func ParseCommand(input string) Command {
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	return Command{Name: resolveCommand(strings.ToLower(name)), Args: strings.TrimSpace(args)}
}

func resolveCommand(name string) string {
	for _, c := range commandTable {
		if c.name == name || slices.Contains(c.aliases, name) {
			return c.name
		}
	}
	return name
}

// CompleteCommand returns the command names starting with prefix. Once a
// space has been typed there is nothing left to complete.
func CompleteCommand(prefix string) []string {
	if prefix == "" || strings.Contains(prefix, " ") {
		return nil
	}
	prefix = strings.ToLower(prefix)
	var out []string
	for _, c := range commandTable {
		if strings.HasPrefix(c.name, prefix) {
			out = append(out, c.name)
		}
	}
	return out
}

// CommandHints lists the commands for the help page.
func CommandHints() []ui.MenuHint {
	out := make([]ui.MenuHint, len(commandTable))
	for i, c := range commandTable {
		desc := c.help
		if len(c.aliases) > 0 {
			desc += " (" + strings.Join(c.aliases, ", ") + ")"
		}
		out[i] = ui.MenuHint{Key: c.usage, Description: desc}
	}
	return out
}
