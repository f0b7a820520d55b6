// SPDX-License-Identifier: MIT

package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/lvkernel/matrix"
)

// DenseResult is the CLI output of one dense evaluation.
type DenseResult struct {
	Metric string      `json:"metric" yaml:"metric"`
	Sigma  float64     `json:"sigma" yaml:"sigma"`
	Rows   int         `json:"rows" yaml:"rows"`
	Cols   int         `json:"cols" yaml:"cols"`
	Kernel [][]float64 `json:"kernel" yaml:"kernel"`
	Cached bool        `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// AtomicResult is the CLI output of one atomic evaluation, one kernel per sigma.
type AtomicResult struct {
	Metric    string        `json:"metric" yaml:"metric"`
	Reduction string        `json:"reduction" yaml:"reduction"`
	Sigmas    []float64     `json:"sigmas" yaml:"sigmas"`
	Names1    []string      `json:"names1,omitempty" yaml:"names1,omitempty"`
	Names2    []string      `json:"names2,omitempty" yaml:"names2,omitempty"`
	Kernels   [][][]float64 `json:"kernels" yaml:"kernels"`
	Cached    bool          `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// NewDenseResult captures k.
func NewDenseResult(metric string, sigma float64, k *matrix.Dense) *DenseResult {
	return &DenseResult{Metric: metric, Sigma: sigma, Rows: k.Rows(), Cols: k.Cols(), Kernel: k.ToRows()}
}

// NewAtomicResult captures ks, one per sigma.
func NewAtomicResult(metric, reduction string, sigmas []float64, ks []*matrix.Dense) *AtomicResult {
	out := &AtomicResult{Metric: metric, Reduction: reduction, Sigmas: sigmas, Kernels: make([][][]float64, len(ks))}
	for i, k := range ks {
		out.Kernels[i] = k.ToRows()
	}
	return out
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText prints a result as aligned text, one matrix row per line.
func WriteText(w io.Writer, v any) error {
	var b strings.Builder
	switch r := v.(type) {
	case *DenseResult:
		fmt.Fprintf(&b, "%s sigma=%g %d×%d\n", r.Metric, r.Sigma, r.Rows, r.Cols)
		writeRows(&b, r.Kernel)
	case *AtomicResult:
		for i, k := range r.Kernels {
			fmt.Fprintf(&b, "%s/%s sigma=%g %d×%d\n", r.Metric, r.Reduction, r.Sigmas[i], len(k), cols(k))
			writeRows(&b, k)
		}
	default:
		return fmt.Errorf("dataset: cannot print %T as text", v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRows(b *strings.Builder, rows [][]float64) {
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%.6f", v)
		}
		b.WriteByte('\n')
	}
}

func cols(rows [][]float64) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}
