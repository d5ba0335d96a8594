/*
rulex is a console utility matching candidate strings against a grammar of numbered rules.
Usage is

	rulex [--config <file>] [--verbose] <command> [flags] <file>

Commands are:

	match     counts (and optionally lists) candidate strings matching the start rule;
	simplify  prints simplified grammar;
	gen       converts grammar to Go source file.

<file> contains grammar description parsable by langdef.Parse(), for match command it must be followed
by an empty line and candidate strings, one per line. "-" means standard input.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ava12/rulex"
	"github.com/ava12/rulex/grammar"
	"github.com/ava12/rulex/internal/config"
)

// app holds state shared by subcommands.
type app struct {
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rulex",
		Short: "Match strings against a grammar of numbered rules",
		Long: `rulex checks whether candidate strings are fully derivable from a rule of a grammar
given as a list of numbered rules, e.g.

  0: 4 1 5
  1: 2 3 | 3 2
  2: 4 4 | 5 5
  3: 4 5 | 5 4
  4: "a"
  5: "b"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				zapConfig := zap.NewProductionConfig()
				if a.verbose {
					zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				var err error
				a.logger, err = zapConfig.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger.Debug("configuration loaded", zap.String("path", a.configPath), zap.Any("config", cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "rulex.yaml", "Configuration file, ignored if missing")

	rootCmd.AddCommand(newMatchCmd(a))
	rootCmd.AddCommand(newSimplifyCmd(a))
	rootCmd.AddCommand(newGenCmd(a))
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

// prepare applies patches and simplification to parsed rules.
func (a *app) prepare(rules grammar.Set, simplify bool) (grammar.Set, error) {
	patches, err := a.cfg.PatchEntries()
	if err != nil {
		return nil, err
	}
	if len(patches) > 0 {
		rules.Merge(patches...)
		a.logger.Debug("rules patched", zap.Int("count", len(patches)))
	}

	if missing := rules.Missing(); len(missing) > 0 {
		a.logger.Warn("grammar references undefined rules", zap.Ints("ids", missing))
	}

	if simplify {
		rules = grammar.Simplify(rules)
		a.logger.Debug("rules simplified", zap.Int("rules", len(rules)))
	}
	return rules, nil
}

// grammarError logs syntax error details and returns the error itself.
func (a *app) grammarError(err error) error {
	var re *rulex.Error
	if errors.As(err, &re) {
		a.logger.Debug("grammar error", zap.Int("code", re.Code), zap.String("details", re.Details()))
	}
	return err
}
