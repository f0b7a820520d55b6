// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"

	"github.com/katalvlaran/lvkernel/internal/dataset"
	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

// infoReport is what "lvkernel info" prints.
type infoReport struct {
	Version   string          `json:"version"`
	GOOS      string          `json:"goos"`
	GOARCH    string          `json:"goarch"`
	Workers   int             `json:"workers"`
	Dispatch  string          `json:"dispatch"`
	Features  map[string]bool `json:"cpu_features"`
	Metric    string          `json:"metric"`
	MaxBytes  int64           `json:"max_bytes"`
	CacheDir  string          `json:"cache_dir,omitempty"`
	CacheSize int             `json:"cache_entries,omitempty"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print worker count, CPU features and effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := infoReport{
				Version:  version,
				GOOS:     runtime.GOOS,
				GOARCH:   runtime.GOARCH,
				Workers:  a.pool.NumWorkers(),
				Dispatch: kernel.DispatchLevel(),
				Features: cpuFeatures(),
				Metric:   a.cfg.Kernel.Metric,
				MaxBytes: a.cfg.Engine.MaxBytes,
				CacheDir: a.cfg.Cache.Dir,
			}
			if a.cache != nil {
				n, err := a.cache.Len()
				if err != nil {
					return err
				}
				rep.CacheSize = n
			}

			if a.json {
				return dataset.WriteJSON(cmd.OutOrStdout(), rep)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "lvkernel %s (%s/%s)\n", rep.Version, rep.GOOS, rep.GOARCH)
			fmt.Fprintf(w, "workers:   %d\n", rep.Workers)
			fmt.Fprintf(w, "dispatch:  %s\n", rep.Dispatch)
			for _, name := range featureOrder {
				if on, ok := rep.Features[name]; ok {
					fmt.Fprintf(w, "cpu %-7s %t\n", name+":", on)
				}
			}
			fmt.Fprintf(w, "metric:    %s\n", rep.Metric)
			fmt.Fprintf(w, "max bytes: %d\n", rep.MaxBytes)
			if rep.CacheDir != "" {
				fmt.Fprintf(w, "cache:     %s (%d entries)\n", rep.CacheDir, rep.CacheSize)
			}
			return nil
		},
	}
}

var featureOrder = []string{"avx2", "avx512f", "fma", "asimd", "sve"}

func cpuFeatures() map[string]bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return map[string]bool{
			"avx2":    cpu.X86.HasAVX2,
			"avx512f": cpu.X86.HasAVX512F,
			"fma":     cpu.X86.HasFMA,
		}
	case "arm64":
		return map[string]bool{
			"asimd": cpu.ARM64.HasASIMD,
			"sve":   cpu.ARM64.HasSVE,
		}
	default:
		return map[string]bool{}
	}
}
