package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/suisage/suisage/internal/catalog"
	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/registry"
	"github.com/suisage/suisage/internal/schema"
)

func (s *runtimeState) newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [command path]",
		Short: "Print machine-readable command schema",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.Join(args, " ")
			desc, err := schema.Describe(s.root, path)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "build schema", err)
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), desc, nil, cacheMetaBypass())
		},
	}
	return cmd
}

func (s *runtimeState) newCoinsCommand() *cobra.Command {
	root := &cobra.Command{Use: "coins", Short: "Coin registry commands"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List known coin symbols and their coin types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), registry.Entries(), nil, cacheMetaBypass())
		},
	}
	root.AddCommand(list)
	return root
}

func (s *runtimeState) newToolsCommand() *cobra.Command {
	root := &cobra.Command{Use: "tools", Short: "Query tool catalog commands"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the tools the model can request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), catalog.Tools(), nil, cacheMetaBypass())
		},
	}
	root.AddCommand(list)
	return root
}
