// Package schema serializes the command tree so agents and shell
// completions can discover the CLI surface without parsing help text.
package schema

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type Command struct {
	Path        string    `json:"path"`
	Use         string    `json:"use"`
	Short       string    `json:"short"`
	Aliases     []string  `json:"aliases,omitempty"`
	Flags       []Flag    `json:"flags,omitempty"`
	Subcommands []Command `json:"subcommands,omitempty"`
}

type Flag struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

// Describe returns the schema of the command at path, or of the whole tree
// when path is empty.
func Describe(root *cobra.Command, path string) (Command, error) {
	cmd := root
	for _, segment := range strings.Fields(strings.TrimSpace(path)) {
		next := findSubcommand(cmd, segment)
		if next == nil {
			return Command{}, fmt.Errorf("command not found: %s", path)
		}
		cmd = next
	}
	return describeCommand(cmd), nil
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
		for _, alias := range sub.Aliases {
			if alias == name {
				return sub
			}
		}
	}
	return nil
}

func describeCommand(cmd *cobra.Command) Command {
	desc := Command{
		Path:    strings.TrimSpace(cmd.CommandPath()),
		Use:     cmd.Use,
		Short:   cmd.Short,
		Aliases: cmd.Aliases,
		Flags:   describeFlags(cmd),
	}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		desc.Subcommands = append(desc.Subcommands, describeCommand(sub))
	}
	return desc
}

func describeFlags(cmd *cobra.Command) []Flag {
	flags := []Flag{}
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		flags = append(flags, Flag{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Usage:     f.Usage,
			Default:   f.DefValue,
		})
	})
	return flags
}
