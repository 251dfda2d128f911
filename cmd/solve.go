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
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofim/InputParameters"
	"github.com/notargets/gofim/eikonal"
	"github.com/notargets/gofim/mesh"
)

type ModelSolve struct {
	GridFile    string
	InputFile   string
	OutputFile  string
	ProfileDir  string
	MetricsFile string
	Verbose     bool
}

// Flags that may also come from the config file or GOFIM_* variables
var solveKeys = []string{"dimension", "epsilon", "maxSweeps", "parallel", "threads", "fieldName"}

func newSolveCmd(v *viper.Viper) *cobra.Command {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Propagate arrival times from source nodes across a VTK mesh",
		Long: `
Reads a legacy ASCII VTK mesh, marks the source nodes, runs the Fast Iterative
Method and prints one id:u line per node. Optionally writes the mesh back with
the arrival times as point data.

gofim solve -F square.vtk --sources 0,12 -o square_u.vtk `,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ms := &ModelSolve{}
			ms.GridFile, _ = cmd.Flags().GetString("gridFile")
			ms.InputFile, _ = cmd.Flags().GetString("inputParameters")
			ms.OutputFile, _ = cmd.Flags().GetString("output")
			ms.ProfileDir, _ = cmd.Flags().GetString("profile")
			ms.MetricsFile, _ = cmd.Flags().GetString("metricsFile")
			ms.Verbose, _ = cmd.Flags().GetBool("verbose")
			var ip *InputParameters.EikonalParameters
			if ip, err = processInput(cmd, v, ms); err != nil {
				return
			}
			if ms.ProfileDir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(ms.ProfileDir), profile.Quiet).Stop()
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return RunSolve(ctx, ms, ip, cmd.OutOrStdout())
		},
	}
	solveCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read in legacy ASCII VTK (.vtk) format")
	solveCmd.Flags().StringP("inputParameters", "I", "", "YAML file for run parameters like:\n\t- Sources\n\t- Epsilon\n\t- Anisotropy")
	solveCmd.Flags().StringP("output", "o", "", "VTK file to write with the arrival times as point data")
	solveCmd.Flags().IntSliceP("sources", "s", nil, "comma separated source node indices")
	solveCmd.Flags().IntP("dimension", "d", 2, "mesh dimension: 2 = triangles, 3 = tetrahedra")
	solveCmd.Flags().Float64P("epsilon", "e", 1e-6, "convergence threshold on successive node values")
	solveCmd.Flags().Int("maxSweeps", 100000, "abort when the active list is still not empty after this many sweeps")
	solveCmd.Flags().BoolP("parallel", "p", false, "sweep the active list with a pool of goroutines")
	solveCmd.Flags().IntP("threads", "t", 0, "goroutines per parallel sweep, 0 = number of CPUs")
	solveCmd.Flags().String("fieldName", "u", "name of the point data field in the output file")
	solveCmd.Flags().BoolP("verbose", "v", false, "print run parameters, mesh statistics and sweep progress")
	solveCmd.Flags().String("profile", "", "write a CPU profile to this directory")
	solveCmd.Flags().String("metricsFile", "", "write solver metrics in prometheus text format to this file")
	for _, key := range solveKeys {
		if err := v.BindPFlag(key, solveCmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	return solveCmd
}

// processInput merges the run parameters. The YAML file is read first, then
// any value given by flag, config file or environment replaces it.
func processInput(cmd *cobra.Command, v *viper.Viper, ms *ModelSolve) (ip *InputParameters.EikonalParameters, err error) {
	if len(ms.GridFile) == 0 {
		return nil, fmt.Errorf("must supply a mesh file (-F, --gridFile) in legacy ASCII VTK format")
	}
	if len(ms.InputFile) != 0 {
		if ip, err = InputParameters.ReadFile(ms.InputFile); err != nil {
			return
		}
	} else {
		ip = &InputParameters.EikonalParameters{}
	}
	if cmd.Flags().Changed("sources") {
		if ip.Sources, err = cmd.Flags().GetIntSlice("sources"); err != nil {
			return
		}
	}
	if v.IsSet("dimension") {
		ip.Dimension = v.GetInt("dimension")
	}
	if v.IsSet("epsilon") {
		ip.Epsilon = v.GetFloat64("epsilon")
	}
	if v.IsSet("maxSweeps") {
		ip.MaxSweeps = v.GetInt("maxSweeps")
	}
	if v.IsSet("parallel") {
		ip.Parallel = v.GetBool("parallel")
	}
	if v.IsSet("threads") {
		ip.ParallelDegree = v.GetInt("threads")
	}
	if v.IsSet("fieldName") {
		ip.FieldName = v.GetString("fieldName")
	}
	ip.Defaults()
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%w\nExample File:%s", err, InputParameters.ExampleFile)
	}
	if len(ip.Sources) == 0 {
		return nil, fmt.Errorf("must supply at least one source node (-s, --sources or Sources: in the input parameters)")
	}
	if ms.Verbose {
		ip.Print()
	}
	return
}

// RunSolve loads the mesh, propagates from the sources and prints the field
// to out. Nothing is printed or written unless the propagation converged.
func RunSolve(ctx context.Context, ms *ModelSolve, ip *InputParameters.EikonalParameters, out io.Writer) (err error) {
	var m *mesh.Mesh
	if m, err = mesh.ReadVTK(ms.GridFile, ip.Dimension); err != nil {
		return
	}
	if len(ip.Title) != 0 {
		m.Title = ip.Title
	}
	if err = m.SetSources(ip.Sources); err != nil {
		return
	}
	if ms.Verbose {
		m.PrintStatistics()
	}
	var (
		anisotropy mat.Symmetric
		solver     *eikonal.HopfLax
	)
	if anisotropy, err = eikonal.AnisotropyFromRows(ip.Anisotropy); err != nil {
		return
	}
	if solver, err = eikonal.NewHopfLax(ip.Dimension, anisotropy); err != nil {
		return
	}
	cfg := eikonal.DefaultConfig()
	cfg.Epsilon = ip.Epsilon
	cfg.MaxSweeps = ip.MaxSweeps
	cfg.Parallel = ip.Parallel
	if ip.ParallelDegree > 0 {
		cfg.ParallelDegree = ip.ParallelDegree
	}
	if ms.Verbose {
		cfg.Logf = log.Printf
	}
	var reg *prometheus.Registry
	if len(ms.MetricsFile) != 0 {
		reg = prometheus.NewRegistry()
		cfg.Metrics = eikonal.NewMetrics(reg)
	}
	var e *eikonal.Engine
	if e, err = eikonal.NewEngine(mesh.NewAdjacency(m), solver, cfg); err != nil {
		return
	}
	if err = e.Solve(ctx); err != nil {
		return
	}
	if reg != nil {
		if err = prometheus.WriteToTextfile(ms.MetricsFile, reg); err != nil {
			return
		}
	}
	field := e.Field()
	if err = eikonal.PrintResults(out, field); err != nil {
		return
	}
	if len(ms.OutputFile) != 0 {
		if err = mesh.WriteVTK(ms.OutputFile, m, mesh.PointField{Name: ip.FieldName, Values: field}); err != nil {
			return
		}
		if ms.Verbose {
			log.Printf("wrote %s\n", ms.OutputFile)
		}
	}
	return
}
