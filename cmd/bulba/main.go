package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/Azure/bulba/internal/config"
	"github.com/Azure/bulba/internal/logging"
	"github.com/Azure/bulba/parser"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return newRootCmd(newApp()).ExecuteContext(ctx)
}

// app is the state shared by every command, resolved before any of them run.
type app struct {
	configPath string
	cfg        *config.Config
	logger     logr.Logger
	parser     *parser.Parser

	newLogger func(debug bool, build string) (logr.Logger, error)
}

func newApp() *app {
	return &app{newLogger: logging.New}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bulba",
		Short:         "Parse, query, and validate BULBA! documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a config file providing defaults for the flags below")
	flags.StringP("output", "o", config.Default().Output, "Output format: text, json, yaml, or toml")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("metrics-textfile", "", "Write parse metrics to this file in the Prometheus text format")

	root.AddCommand(
		a.newParseCmd(),
		a.newTokensCmd(),
		a.newCheckCmd(),
		a.newEvalCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = a.newLogger(cfg.Debug, version)
	if err != nil {
		return fmt.Errorf("constructing logger: %w", err)
	}
	a.parser = parser.New(parser.Options{Logger: a.logger})
	cmd.SetContext(logr.NewContext(cmd.Context(), a.logger))
	return nil
}

func (a *app) readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}
