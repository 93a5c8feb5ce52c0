package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vexc",
		Short: "VEX - single-file component template compiler",
		Long: `vexc compiles .vex single-file components into JavaScript render
modules. Three backends are available: dom emits block-optimized
virtual-DOM render functions, vapor emits direct DOM-manipulation code,
and ssr emits server-side string rendering.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newExploreCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
