// Command server runs the IFC/STEP geometry processing HTTP service.
// Entrypoint structured as a cobra command tree (serve, version),
// grounded on orbas1-Synnergy's cmd/synnergy/main.go.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{Use: "ifcproc-server"}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
