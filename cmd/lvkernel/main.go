// SPDX-License-Identifier: MIT

// Command lvkernel evaluates Laplacian and Gaussian kernel matrices over
// descriptor documents and generates synthetic documents for benchmarking.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katalvlaran/lvkernel/internal/config"
	"github.com/katalvlaran/lvkernel/internal/dataset"
	"github.com/katalvlaran/lvkernel/internal/logging"
	"github.com/katalvlaran/lvkernel/kcache"
	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/katalvlaran/lvkernel/workerpool"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command line and releases everything it opened.
func run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.Execute()
}

// app carries the state shared by every subcommand after flag parsing.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	pool  *workerpool.Pool
	cache *kcache.Cache
	json  bool
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lvkernel",
		Short: "Laplacian and Gaussian kernel matrices for descriptor data",
		Long: `lvkernel computes similarity kernels between descriptor collections.

"dense" compares two collections of fixed-width vectors; "atomic" compares
molecules made of a variable number of atoms by summing atom-pair kernels.
Results can be memoised in an on-disk cache with --cache-dir.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("log-level", "", "Log level: error, warn, info, debug or trace")
	pf.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS, 1 = sequential)")
	pf.String("cache-dir", "", "Enable the result cache in this directory")
	pf.Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newDenseCmd(a),
		newAtomicCmd(a),
		newGenCmd(a),
		newInfoCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and opens shared resources.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir, _ = flags.GetString("cache-dir")
	}
	a.json, _ = flags.GetBool("json")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.Logging.JSON {
		a.log = logging.NewJSONLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	} else {
		a.log = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	}

	if cfg.Engine.Workers != 1 {
		a.pool = workerpool.New(cfg.Engine.Workers)
	}

	if cfg.Cache.Dir != "" {
		c, err := kcache.Open(kcache.Options{
			Dir:    cfg.Cache.Dir,
			TTL:    cfg.Cache.TTL,
			Logger: a.log.With("component", "kcache"),
		})
		if err != nil {
			return err
		}
		a.cache = c
	}
	a.log.Debug("configured",
		"config", path,
		"workers", a.pool.NumWorkers(),
		"cache", cfg.Cache.Dir,
	)

	return nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && a.log != nil {
			a.log.Warn("closing cache", "error", err)
		}
		a.cache = nil
	}
	a.pool.Close()
	a.pool = nil
}

// compute returns the matrices under key, running fn on a cache miss. Without
// a cache it just runs fn.
func (a *app) compute(key kcache.Key, fn func() ([]*matrix.Dense, error)) ([]*matrix.Dense, bool, error) {
	if a.cache == nil {
		ms, err := fn()
		return ms, false, err
	}
	a.log.Log(context.Background(), logging.LevelTrace, "cache lookup", "key", key.String())
	ms, hit, err := a.cache.GetOrCompute(key, fn)
	if err != nil {
		return nil, false, err
	}
	a.log.Debug("cache", "hit", hit)

	return ms, hit, nil
}

// emit writes a result as JSON or text depending on --json / --output.
func (a *app) emit(cmd *cobra.Command, output string, v any) error {
	w := cmd.OutOrStdout()
	switch {
	case output == "json", output == "" && a.json:
		return dataset.WriteJSON(w, v)
	case output == "yaml":
		return dataset.Write(w, v)
	case output == "text", output == "":
		return dataset.WriteText(w, v)
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", output)
	}
}
