// SPDX-License-Identifier: MIT

package dataset_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/builder"
	"github.com/katalvlaran/lvkernel/internal/dataset"
	"github.com/katalvlaran/lvkernel/kernel"
	"github.com/katalvlaran/lvkernel/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDense(t *testing.T) {
	doc, err := dataset.ReadDense(strings.NewReader("a: [[0, 0], [1, 1]]\nb: [[0, 0]]\n"))
	require.NoError(t, err)
	assert.False(t, doc.Self())
	assert.Equal(t, [][]float64{{0, 0}, {1, 1}}, doc.A)

	// JSON is valid YAML
	doc, err = dataset.ReadDense(strings.NewReader(`{"a": [[1, 2, 3]]}`))
	require.NoError(t, err)
	assert.True(t, doc.Self())

	_, err = dataset.ReadDense(strings.NewReader(""))
	require.ErrorIs(t, err, dataset.ErrEmptyDocument)
	_, err = dataset.ReadDense(strings.NewReader("a: []\n"))
	require.ErrorIs(t, err, dataset.ErrEmptyDocument)
	_, err = dataset.ReadDense(strings.NewReader("x: [[1]]\n"))
	require.Error(t, err)
}

func TestReadAtomic_AtomCount(t *testing.T) {
	src := `
mols1:
  - name: water
    descriptors: [[1, 0], [0, 1], [1, 1]]
  - name: trimmed
    atoms: 1
    descriptors: [[2, 2], [9, 9]]
  - name: empty
    descriptors: []
`
	doc, err := dataset.ReadAtomic(strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, doc.Self())
	require.Len(t, doc.Mols1, 3)

	mols := dataset.Molecules(doc.Mols1)
	assert.Equal(t, 3, mols[0].AtomCount())
	assert.Equal(t, 1, mols[1].AtomCount())
	assert.Equal(t, 0, mols[2].AtomCount())

	d, err := mols[2].LocalDescriptors()
	require.NoError(t, err)
	assert.Nil(t, d)

	ks, err := atomkernel.GetAtomicKernelsGaussian(mols, mols, []float64{1})
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(ks[0]))
	assert.Equal(t, 1.0, ks[0].Data()[4]) // trimmed vs trimmed: one atom pair at distance 0
}

func TestMoleculeDoc_Ragged(t *testing.T) {
	m := dataset.MoleculeDoc{Name: "bad", Descriptors: [][]float64{{1, 2}, {3}}}
	_, err := m.LocalDescriptors()
	require.ErrorIs(t, err, matrix.ErrRaggedRows)
}

func TestLoadAndWriteRoundTrip(t *testing.T) {
	mols, err := builder.Molecules(3, 2, builder.WithSeed(4), builder.WithAtomRange(1, 3))
	require.NoError(t, err)
	in := &dataset.AtomicDoc{Mols1: dataset.FromBuilder(mols)}

	var buf bytes.Buffer
	require.NoError(t, dataset.Write(&buf, in))
	path := filepath.Join(t.TempDir(), "mols.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := dataset.LoadAtomic(path)
	require.NoError(t, err)
	require.Len(t, out.Mols1, 3)
	for i := range mols {
		assert.Equal(t, mols[i].Name, out.Mols1[i].Name)
		assert.Equal(t, mols[i].Rows(), out.Mols1[i].Descriptors)
	}

	_, err = dataset.LoadDense(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResults(t *testing.T) {
	a, err := matrix.FromRows([][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)
	k, err := kernel.Laplacian(a, a, 1)
	require.NoError(t, err)

	res := dataset.NewDenseResult("laplacian", 1, k)
	var text bytes.Buffer
	require.NoError(t, dataset.WriteText(&text, res))
	assert.Equal(t, "laplacian sigma=1 2×2\n1.000000 0.135335\n0.135335 1.000000\n", text.String())

	var js bytes.Buffer
	require.NoError(t, dataset.WriteJSON(&js, res))
	var back dataset.DenseResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, res.Kernel, back.Kernel)

	ar := dataset.NewAtomicResult("gaussian", "sum", []float64{1, 2}, []*matrix.Dense{k, k})
	text.Reset()
	require.NoError(t, dataset.WriteText(&text, ar))
	assert.Contains(t, text.String(), "gaussian/sum sigma=2 2×2")

	require.Error(t, dataset.WriteText(&text, 42))
}
