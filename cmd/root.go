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
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = newRootCmd(viper.GetViper())

// newRootCmd assembles the command tree. Flag values not given on the command
// line are looked up in v, which reads the config file and GOFIM_* variables.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "gofim",
		Short: "Eikonal arrival times on triangle and tetrahedral meshes",
		Long: `
Solves the eikonal equation on simplicial meshes with the Fast Iterative Method,
sequentially or with a parallel sweep over the active front.

gofim solve -F mesh.vtk --sources 0 `,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gofim.yaml)")
	root.AddCommand(newSolveCmd(v))
	root.AddCommand(newGenerateCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set. A missing default
// config file is not an error, an unreadable explicit one is.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		// Search config in home directory with name ".gofim" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(".gofim")
	}
	v.SetEnvPrefix("GOFIM")
	v.AutomaticEnv() // read in environment variables that match

	err := v.ReadInConfig()
	switch err.(type) {
	case nil:
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	case viper.ConfigFileNotFoundError:
		if cfgFile == "" {
			return nil
		}
		return err
	default:
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}
