package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Azure/bulba/internal/cel"
	"github.com/Azure/bulba/internal/config"
	"github.com/Azure/bulba/internal/harness"
	"github.com/Azure/bulba/internal/mutation"
	"github.com/Azure/bulba/parser"
	"github.com/Azure/bulba/pkg/document"
	"github.com/Azure/bulba/pkg/patch"
)

func (a *app) newParseCmd() *cobra.Command {
	var (
		patchFile  string
		mutateFile string
		sets       []string
	)
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse documents and print the result",
		Long: `Parse one or more documents and print the result in the configured output format.

Later documents are merged over earlier ones (RFC 7386). The --patch, --mutate, and --set
changes are then applied to the merged document in that order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := config.ParseOverrides(sets)
			if err != nil {
				return err
			}

			doc, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			for _, file := range args[1:] {
				overlay, err := a.parseFile(cmd, file)
				if err != nil {
					return err
				}
				if doc, err = patch.Merge(doc, overlay); err != nil {
					return fmt.Errorf("merging %s: %w", file, err)
				}
			}

			if patchFile != "" {
				ops, err := os.ReadFile(patchFile)
				if err != nil {
					return err
				}
				if doc, err = patch.Apply(doc, ops); err != nil {
					return err
				}
			}

			if mutateFile != "" {
				raw, err := os.ReadFile(mutateFile)
				if err != nil {
					return err
				}
				ops, err := mutation.DecodeOps(raw)
				if err != nil {
					return fmt.Errorf("decoding mutations: %w", err)
				}
				if doc, err = mutation.ApplyAll(cmd.Context(), doc, ops); err != nil {
					return err
				}
			}

			for _, o := range overrides {
				if err := applyOverride(doc, o); err != nil {
					return err
				}
			}

			return writeDocument(cmd.OutOrStdout(), a.cfg.Output, doc)
		},
	}
	cmd.Flags().StringVar(&patchFile, "patch", "", "JSON patch (RFC 6902) to apply to the parsed document")
	cmd.Flags().StringVar(&mutateFile, "mutate", "", "JSON list of {path, condition, value} mutations to apply")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Assign a value to a dotted key path, e.g. database.port=5432 (repeatable)")
	return cmd
}

func (a *app) newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tokens, err := parser.Tokenize(src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok.String())
			}
			return nil
		},
	}
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [DIR]",
		Short: "Run the built-in cases, or the .bson/.error cases in DIR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases := harness.DefaultCases()
			if len(args) > 0 {
				var err error
				if cases, err = harness.LoadDir(args[0]); err != nil {
					return err
				}
			}

			results := harness.NewRunner(a.parser).Run(cmd.Context(), cases)
			if err := harness.Report(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			if path := a.cfg.MetricsTextfile; path != "" {
				if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
			}

			if failed := len(harness.Failed(results)); failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(results))
			}
			return nil
		},
	}
}

func (a *app) newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE EXPR",
		Short: "Evaluate a CEL expression against a document",
		Long:  "Evaluate a CEL expression with the parsed document bound to `self`, e.g. `self.database.port > 1024`.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			prgm, err := cel.Parse(args[1])
			if err != nil {
				return fmt.Errorf("compiling expression: %w", err)
			}
			val, err := cel.Eval(cmd.Context(), prgm, doc)
			if err != nil {
				return fmt.Errorf("evaluating expression: %w", err)
			}
			v, err := cel.ToValue(val)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), a.cfg.Output, v)
		},
	}
}

func (a *app) parseFile(cmd *cobra.Command, file string) (*document.Object, error) {
	src, err := a.readInput(cmd, file)
	if err != nil {
		return nil, err
	}
	doc, err := a.parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return doc, nil
}

// applyOverride assigns o to doc, creating intermediate sections as needed.
// The value uses the same grammar as the right-hand side of an assignment.
func applyOverride(doc *document.Object, o config.Override) error {
	holder, err := parser.Parse([]byte(parser.Header + "\nvalue ~> " + o.Value + "\n"))
	if err != nil {
		return fmt.Errorf("override %s: %w", strings.Join(o.Path, "."), err)
	}
	val, _ := holder.Get("value")

	obj := doc
	for i, key := range o.Path[:len(o.Path)-1] {
		next, ok := obj.Get(key)
		if !ok {
			child := document.NewObject()
			obj.Set(key, document.ObjectValue(child))
			obj = child
			continue
		}
		if obj, ok = next.AsObject(); !ok {
			return fmt.Errorf("override %s: %s is a %s, not a section", strings.Join(o.Path, "."), strings.Join(o.Path[:i+1], "."), next.Kind())
		}
	}
	obj.Set(o.Path[len(o.Path)-1], val)
	return nil
}
