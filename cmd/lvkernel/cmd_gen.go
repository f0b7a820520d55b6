// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/katalvlaran/lvkernel/builder"
	"github.com/katalvlaran/lvkernel/internal/dataset"
	"github.com/spf13/cobra"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate synthetic descriptor documents",
	}
	cmd.PersistentFlags().Int64("seed", 1, "Random seed")
	cmd.PersistentFlags().String("dist", "uniform", "Value distribution: uniform or normal")
	cmd.PersistentFlags().Float64("lo", 0, "Uniform lower bound / normal mean")
	cmd.PersistentFlags().Float64("hi", 10, "Uniform upper bound / normal standard deviation")
	cmd.PersistentFlags().StringP("out", "o", "-", "Output file, - for stdout")

	cmd.AddCommand(newGenDenseCmd(a), newGenAtomicCmd(a))
	return cmd
}

func newGenDenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dense",
		Short: "Generate a {a, b} descriptor document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			n, _ := flags.GetInt("n")
			m, _ := flags.GetInt("m")
			dim, _ := flags.GetInt("dim")

			opts, err := genOptions(cmd)
			if err != nil {
				return err
			}
			doc := &dataset.DenseDoc{}
			if doc.A, err = builder.DescriptorRows(n, dim, opts...); err != nil {
				return err
			}
			if m > 0 {
				if doc.B, err = builder.DescriptorRows(m, dim, opts...); err != nil {
					return err
				}
			}
			a.log.Debug("generated dense document", "a", n, "b", m, "dim", dim)

			return a.writeDoc(cmd, doc)
		},
	}
	cmd.Flags().Int("n", 8, "Rows of a")
	cmd.Flags().Int("m", 0, "Rows of b (0 omits b: self kernel)")
	cmd.Flags().Int("dim", 4, "Descriptor width")

	return cmd
}

func newGenAtomicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atomic",
		Short: "Generate a {mols1, mols2} molecule document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			nmol, _ := flags.GetInt("mols")
			nmol2, _ := flags.GetInt("mols2")
			width, _ := flags.GetInt("width")
			minAtoms, _ := flags.GetInt("min-atoms")
			maxAtoms, _ := flags.GetInt("max-atoms")
			repeat, _ := flags.GetFloat64("repeat")
			noise, _ := flags.GetFloat64("noise")
			excel, _ := flags.GetBool("excel-ids")

			if minAtoms < 0 || maxAtoms < minAtoms {
				return fmt.Errorf("invalid atom range [%d, %d]", minAtoms, maxAtoms)
			}
			if repeat < 0 || repeat > 1 || noise < 0 {
				return fmt.Errorf("invalid repeat %g / noise %g", repeat, noise)
			}

			opts, err := genOptions(cmd)
			if err != nil {
				return err
			}
			opts = append(opts, builder.WithAtomRange(minAtoms, maxAtoms))
			if repeat > 0 {
				opts = append(opts, builder.WithRepeatedAtoms(repeat, noise))
			}
			if excel {
				opts = append(opts, builder.WithExcelColumnIDs())
			}

			doc := &dataset.AtomicDoc{}
			mols, err := builder.Molecules(nmol, width, opts...)
			if err != nil {
				return err
			}
			doc.Mols1 = dataset.FromBuilder(mols)
			if nmol2 > 0 {
				mols, err = builder.Molecules(nmol2, width, append(opts, builder.WithSymbNumb("ref"))...)
				if err != nil {
					return err
				}
				doc.Mols2 = dataset.FromBuilder(mols)
			}
			a.log.Debug("generated atomic document", "mols1", nmol, "mols2", nmol2, "width", width)

			return a.writeDoc(cmd, doc)
		},
	}
	cmd.Flags().Int("mols", 4, "Molecules in mols1")
	cmd.Flags().Int("mols2", 0, "Molecules in mols2 (0 omits mols2: self kernel)")
	cmd.Flags().Int("width", 4, "Descriptor width")
	cmd.Flags().Int("min-atoms", 1, "Minimum atoms per molecule")
	cmd.Flags().Int("max-atoms", 8, "Maximum atoms per molecule")
	cmd.Flags().Float64("repeat", 0, "Probability an atom copies the previous one")
	cmd.Flags().Float64("noise", 0, "Uniform jitter added to copied atoms")
	cmd.Flags().Bool("excel-ids", false, "Name molecules A, B, ..., AA instead of mol0, mol1, ...")

	return cmd
}

// genOptions turns the shared gen flags into builder options. One RNG is
// shared by every generator call so a and b differ under the same seed.
func genOptions(cmd *cobra.Command) ([]builder.BuilderOption, error) {
	flags := cmd.Flags()
	seed, _ := flags.GetInt64("seed")
	dist, _ := flags.GetString("dist")
	lo, _ := flags.GetFloat64("lo")
	hi, _ := flags.GetFloat64("hi")

	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("--lo/--hi must be finite, got %g, %g", lo, hi)
	}

	opts := []builder.BuilderOption{builder.WithRand(rand.New(rand.NewSource(seed)))}
	switch dist {
	case "uniform":
		if lo > hi {
			return nil, fmt.Errorf("uniform: lo %g > hi %g", lo, hi)
		}
		opts = append(opts, builder.WithUniformValues(lo, hi))
	case "normal":
		if hi < 0 {
			return nil, fmt.Errorf("normal: negative standard deviation %g", hi)
		}
		opts = append(opts, builder.WithNormalValues(lo, hi))
	default:
		return nil, fmt.Errorf("unknown distribution %q (valid: uniform, normal)", dist)
	}

	return opts, nil
}

// writeDoc writes a generated document as YAML, or JSON with --json.
func (a *app) writeDoc(cmd *cobra.Command, doc any) error {
	out, _ := cmd.Flags().GetString("out")
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if a.json {
		return dataset.WriteJSON(w, doc)
	}
	return dataset.Write(w, doc)
}
