/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/gofim/mesh"
)

type ModelGenerate struct {
	NX, NY     int
	Jitter     float64
	Seed       int64
	OutputFile string
}

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a Delaunay triangulation of the unit square as a VTK mesh",
		Long: `
Triangulates an nx by ny grid of points on the unit square, with the interior
points optionally jittered, and writes it in legacy ASCII VTK format. The same
seed always gives the same mesh.

gofim generate --nx 65 --ny 65 --jitter 0.3 -o square.vtk `,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mg := &ModelGenerate{}
			mg.NX, _ = cmd.Flags().GetInt("nx")
			mg.NY, _ = cmd.Flags().GetInt("ny")
			mg.Jitter, _ = cmd.Flags().GetFloat64("jitter")
			mg.Seed, _ = cmd.Flags().GetInt64("seed")
			mg.OutputFile, _ = cmd.Flags().GetString("output")
			if len(mg.OutputFile) == 0 {
				return fmt.Errorf("must supply an output file (-o, --output)")
			}
			return RunGenerate(mg, cmd.OutOrStdout())
		},
	}
	generateCmd.Flags().Int("nx", 33, "number of points along x")
	generateCmd.Flags().Int("ny", 33, "number of points along y")
	generateCmd.Flags().Float64("jitter", 0, "interior point displacement as a fraction of the spacing, in [0, 0.5)")
	generateCmd.Flags().Int64("seed", 1, "random seed for the jitter")
	generateCmd.Flags().StringP("output", "o", "", "VTK file to write")
	return generateCmd
}

func RunGenerate(mg *ModelGenerate, out io.Writer) (err error) {
	var m *mesh.Mesh
	if m, err = mesh.GenerateSquare(mg.NX, mg.NY, mg.Jitter, mg.Seed); err != nil {
		return
	}
	if err = mesh.WriteVTK(mg.OutputFile, m); err != nil {
		return
	}
	_, err = fmt.Fprintf(out, "wrote %s: %d nodes, %d triangles\n", mg.OutputFile, m.NumNodes(), m.NumElements())
	return
}
