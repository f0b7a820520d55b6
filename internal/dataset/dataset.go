// SPDX-License-Identifier: MIT

// Package dataset reads and writes the descriptor documents consumed by the
// lvkernel CLI. Documents are YAML; since YAML is a superset of JSON, JSON
// input is accepted unchanged.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/builder"
	"github.com/katalvlaran/lvkernel/matrix"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a document has no primary collection.
var ErrEmptyDocument = errors.New("dataset: document has no descriptors")

// DenseDoc holds two descriptor collections. B is optional; when absent the
// self kernel K(A, A) is meant.
type DenseDoc struct {
	A [][]float64 `json:"a" yaml:"a"`
	B [][]float64 `json:"b,omitempty" yaml:"b,omitempty"`
}

// Self reports whether the document describes a self kernel.
func (d *DenseDoc) Self() bool { return d.B == nil }

// AtomicDoc holds two molecule batches. Mols2 is optional (self kernel).
type AtomicDoc struct {
	Mols1 []MoleculeDoc `json:"mols1" yaml:"mols1"`
	Mols2 []MoleculeDoc `json:"mols2,omitempty" yaml:"mols2,omitempty"`
}

// Self reports whether the document describes a self kernel.
func (d *AtomicDoc) Self() bool { return d.Mols2 == nil }

// MoleculeDoc is one molecule. Atoms defaults to len(Descriptors); a smaller
// value means the trailing rows are ignored.
type MoleculeDoc struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Atoms       *int        `json:"atoms,omitempty" yaml:"atoms,omitempty"`
	Descriptors [][]float64 `json:"descriptors" yaml:"descriptors"`
}

var _ atomkernel.Molecule = (*MoleculeDoc)(nil)

// AtomCount implements atomkernel.Molecule.
func (m *MoleculeDoc) AtomCount() int {
	if m.Atoms != nil {
		return *m.Atoms
	}
	return len(m.Descriptors)
}

// LocalDescriptors implements atomkernel.Molecule. Non-finite values are
// passed through so the engine can report them with molecule context.
func (m *MoleculeDoc) LocalDescriptors() (matrix.Matrix, error) {
	if len(m.Descriptors) == 0 {
		return nil, nil
	}
	d, err := matrix.FromRows(m.Descriptors, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("molecule %q: %w", m.Name, err)
	}
	return d, nil
}

// Molecules converts docs to the engine interface.
func Molecules(docs []MoleculeDoc) []atomkernel.Molecule {
	out := make([]atomkernel.Molecule, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out
}

// FromBuilder converts generated molecules into documents.
func FromBuilder(mols []*builder.Molecule) []MoleculeDoc {
	out := make([]MoleculeDoc, len(mols))
	for i, m := range mols {
		out[i] = MoleculeDoc{Name: m.Name, Descriptors: m.Rows()}
	}
	return out
}

// ReadDense decodes a DenseDoc from r.
func ReadDense(r io.Reader) (*DenseDoc, error) {
	var doc DenseDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	if len(doc.A) == 0 && doc.B == nil {
		return nil, ErrEmptyDocument
	}
	return &doc, nil
}

// ReadAtomic decodes an AtomicDoc from r.
func ReadAtomic(r io.Reader) (*AtomicDoc, error) {
	var doc AtomicDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	if len(doc.Mols1) == 0 && doc.Mols2 == nil {
		return nil, ErrEmptyDocument
	}
	return &doc, nil
}

// LoadDense reads a DenseDoc from path ("-" is stdin).
func LoadDense(path string) (*DenseDoc, error) {
	f, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	doc, err := ReadDense(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadAtomic reads an AtomicDoc from path ("-" is stdin).
func LoadAtomic(path string) (*AtomicDoc, error) {
	f, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	doc, err := ReadAtomic(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write encodes v as YAML.
func Write(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("dataset: encode: %w", err)
	}
	return enc.Close()
}

func decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return fmt.Errorf("dataset: decode: %w", err)
	}
	return nil
}

func open(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
