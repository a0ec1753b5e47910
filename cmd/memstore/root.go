/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/memorystore"
	"github.com/suparena/memorystore/config"
	"github.com/suparena/memorystore/registry"
	"github.com/suparena/memorystore/storagemodels"
)

// session is what the persistent pre-run hands to the query commands.
type session struct {
	logger *zap.Logger
	schema *memorystore.Schema
}

func newRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "memstore",
		Short: "query an in-memory model store",
		Long: fmt.Sprintf(`memstore (v%s)

Loads model definitions and seed records from YAML files into a store and
runs all, count and find queries against them.`, memorystore.Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newVersionCmd(), newModelsCmd(s), newAllCmd(s), newCountCmd(s), newFindCmd(s))
	return root
}

func (s *session) open(cmd *cobra.Command) error {
	config.LoadEnvFiles()
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if s.logger, err = config.NewLogger(cfg.LogLevel); err != nil {
		return err
	}

	ctx := cmd.Context()
	adapter, err := cfg.NewAdapter(ctx, s.logger)
	if err != nil {
		return err
	}

	var defs []storagemodels.ModelDefinition
	if cfg.SchemaFile != "" {
		if defs, err = registry.LoadDefinitionsFile(cfg.SchemaFile); err != nil {
			return err
		}
	}
	if s.schema, err = memorystore.Initialize(ctx, adapter, defs...).Await(ctx); err != nil {
		return err
	}

	if cfg.SeedFile != "" {
		n, err := memorystore.SeedPath(ctx, adapter, cfg.SeedFile)
		if err != nil {
			return err
		}
		s.logger.Debug("seed loaded", zap.String("file", cfg.SeedFile), zap.Int("records", n))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of memstore",
		Run: func(cmd *cobra.Command, args []string) {
			info := memorystore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "memstore v%s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
		},
	}
}

func newModelsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the defined models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), s.schema.Models())
		},
	}
}

func newAllCmd(s *session) *cobra.Command {
	var where, order []string
	cmd := &cobra.Command{
		Use:   "all <model>",
		Short: "List the records of a model",
		Example: `  memstore all User --where name=Ada --order "age DESC"
  memstore all User --where 'email=/@example\.com$/'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := parseWhere(where)
			if err != nil {
				return err
			}
			filter := &storagemodels.Filter{Where: conds, Order: order}
			records, err := s.schema.Adapter().All(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			if records == nil {
				records = []storagemodels.Record{}
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringArrayVar(&where, "where", nil, "field=value condition, /pattern/ values match as regular expressions")
	cmd.Flags().StringArrayVar(&order, "order", nil, `sort clause such as "age DESC"`)
	return cmd
}

func newCountCmd(s *session) *cobra.Command {
	var where []string
	cmd := &cobra.Command{
		Use:   "count <model>",
		Short: "Count the records of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := parseWhere(where)
			if err != nil {
				return err
			}
			n, err := s.schema.Adapter().Count(cmd.Context(), args[0], conds)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{"count": n})
		},
	}
	cmd.Flags().StringArrayVar(&where, "where", nil, "field=value condition")
	return cmd
}

func newFindCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "find <model> <id>",
		Short: "Print one record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := s.schema.Adapter().Find(cmd.Context(), args[0], scalar(args[1]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

// parseWhere turns field=value pairs into a where map. Values are read as
// YAML scalars, so 36 is a number and true a boolean; /pattern/ becomes a
// regular expression.
func parseWhere(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	where := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid condition %q, expected field=value", pair)
		}
		if len(value) >= 2 && strings.HasPrefix(value, "/") && strings.HasSuffix(value, "/") {
			re, err := regexp.Compile(value[1 : len(value)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for %q: %w", field, err)
			}
			where[field] = re
			continue
		}
		where[field] = scalar(value)
	}
	return where, nil
}

func scalar(s string) any {
	if s == "" {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case int, float64, bool, string, nil:
		return v
	default:
		return s
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
