// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/lvkernel/internal/dataset"
	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process with a clean environment.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{"LVKERNEL_METRIC", "LVKERNEL_SIGMA", "LVKERNEL_SIGMAS", "LVKERNEL_WORKERS", "LVKERNEL_CACHE_DIR", "LVKERNEL_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lvkernel version "+version))

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, version, v["version"])
}

func TestDense_Text(t *testing.T) {
	in := writeInput(t, "dense.yaml", "a: [[0, 0], [1, 1]]\nb: [[0, 0]]\n")
	out, _, err := execute(t, "dense", "--metric", "laplacian", "--sigma", "1", "--input", in)
	require.NoError(t, err)
	assert.Equal(t, "laplacian sigma=1 2×1\n1.000000\n0.135335\n", out)
}

func TestDense_SelfKernelJSON(t *testing.T) {
	in := writeInput(t, "dense.json", `{"a": [[0, 0], [1, 1], [2, 0]]}`)
	out, _, err := execute(t, "--workers", "1", "dense", "--input", in, "--output", "json")
	require.NoError(t, err)

	var res dataset.DenseResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "gaussian", res.Metric)
	require.Equal(t, 3, res.Rows)
	require.Equal(t, 3, res.Cols)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, res.Kernel[i][i])
		for j := 0; j < 3; j++ {
			assert.Equal(t, res.Kernel[i][j], res.Kernel[j][i])
		}
	}
}

func TestDense_Errors(t *testing.T) {
	mismatch := writeInput(t, "bad.yaml", "a: [[1, 2, 3, 4, 5]]\nb: [[1, 2, 3]]\n")
	_, _, err := execute(t, "dense", "--input", mismatch)
	require.ErrorIs(t, err, kernel.ErrDimensionMismatch)

	ok := writeInput(t, "ok.yaml", "a: [[1]]\n")
	_, _, err = execute(t, "dense", "--input", ok, "--sigma", "0")
	require.ErrorIs(t, err, kernel.ErrInvalidSigma)
	_, _, err = execute(t, "dense", "--input", ok, "--metric", "cosine")
	require.ErrorIs(t, err, kernel.ErrInvalidInput)
	_, _, err = execute(t, "dense", "--input", ok, "--output", "xml")
	require.Error(t, err)
	_, _, err = execute(t, "dense", "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	_, _, err = execute(t, "--workers", "-2", "dense", "--input", ok)
	require.Error(t, err)
}

func TestDense_Cache(t *testing.T) {
	in := writeInput(t, "dense.yaml", "a: [[0, 1], [1, 0]]\n")
	dir := t.TempDir()

	out, _, err := execute(t, "--cache-dir", dir, "dense", "--input", in, "--json")
	require.NoError(t, err)
	var first dataset.DenseResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.False(t, first.Cached)

	out, _, err = execute(t, "--cache-dir", dir, "dense", "--input", in, "--json")
	require.NoError(t, err)
	var second dataset.DenseResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Kernel, second.Kernel)

	out, _, err = execute(t, "--cache-dir", dir, "info", "--json")
	require.NoError(t, err)
	var rep infoReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.CacheSize)
}

func TestGenAndAtomic(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "mols.yaml")
	_, _, err := execute(t, "gen", "atomic", "--seed", "3", "--mols", "4", "--mols2", "2",
		"--width", "3", "--min-atoms", "0", "--max-atoms", "4", "-o", doc)
	require.NoError(t, err)

	out, _, err := execute(t, "atomic", "--input", doc, "--sigmas", "1,2", "--json")
	require.NoError(t, err)
	var res dataset.AtomicResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []float64{1, 2}, res.Sigmas)
	require.Len(t, res.Kernels, 2)
	for _, k := range res.Kernels {
		require.Len(t, k, 4)
		for _, row := range k {
			assert.Len(t, row, 2)
		}
	}
	assert.Equal(t, "mol0", res.Names1[0])
	assert.Equal(t, "ref0", res.Names2[0])
}

func TestAtomic_SelfMean(t *testing.T) {
	in := writeInput(t, "mols.yaml", `
mols1:
  - name: a
    descriptors: [[0, 0], [1, 1]]
  - name: b
    descriptors: [[0, 0]]
`)
	out, _, err := execute(t, "atomic", "--input", in, "--metric", "laplacian", "--sigmas", "1", "--reduction", "mean", "--json")
	require.NoError(t, err)
	var res dataset.AtomicResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	k := res.Kernels[0]
	assert.Equal(t, "mean", res.Reduction)
	assert.InDelta(t, (2+2*0.1353352832366127)/4, k[0][0], 1e-12)
	assert.InDelta(t, (1+0.1353352832366127)/2, k[0][1], 1e-12)
	assert.Equal(t, k[0][1], k[1][0])
	assert.Equal(t, 1.0, k[1][1])

	_, _, err = execute(t, "atomic", "--input", in, "--sigmas", "1,-1")
	require.ErrorIs(t, err, kernel.ErrInvalidSigma)
	_, _, err = execute(t, "atomic", "--input", in, "--reduction", "max")
	require.Error(t, err)
}

func TestGenDense_Deterministic(t *testing.T) {
	a, _, err := execute(t, "gen", "dense", "--seed", "9", "--n", "3", "--m", "2", "--dim", "2")
	require.NoError(t, err)
	b, _, err := execute(t, "gen", "dense", "--seed", "9", "--n", "3", "--m", "2", "--dim", "2")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	doc, err := dataset.ReadDense(strings.NewReader(a))
	require.NoError(t, err)
	assert.Len(t, doc.A, 3)
	assert.Len(t, doc.B, 2)

	_, _, err = execute(t, "gen", "dense", "--dist", "zipf")
	require.Error(t, err)
	_, _, err = execute(t, "gen", "dense", "--lo", "5", "--hi", "1")
	require.Error(t, err)
	_, _, err = execute(t, "gen", "atomic", "--min-atoms", "3", "--max-atoms", "1")
	require.Error(t, err)
}

func TestInfo(t *testing.T) {
	out, _, err := execute(t, "--workers", "3", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "workers:   3")
	assert.Contains(t, out, "dispatch:  "+kernel.DispatchLevel())
}

func TestConfigFileAndLogging(t *testing.T) {
	cfg := writeInput(t, "lvkernel.yaml", "kernel:\n  metric: laplacian\n  sigma: 1\nlogging:\n  level: debug\n")
	in := writeInput(t, "dense.yaml", "a: [[0, 0], [1, 1]]\nb: [[0, 0]]\n")

	out, stderr, err := execute(t, "--config", cfg, "dense", "--input", in)
	require.NoError(t, err)
	assert.Contains(t, out, "laplacian sigma=1")
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=\"dense kernel\"")

	_, _, err = execute(t, "--config", writeInput(t, "bad.yaml", "engine:\n  workers: -1\n"), "info")
	require.Error(t, err)
}
