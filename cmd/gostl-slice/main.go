package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gostl-slice/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gostl-slice",
	Short: "Cut STL meshes with a plane",
	Long: `gostl-slice cuts triangle meshes with an arbitrary plane and keeps the part
in front of it. Straddling triangles are clipped exactly, and the cut can be
closed with cap faces so the result stays watertight. It reads ASCII and
binary STL files and can generate primitive shapes for experiments.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
