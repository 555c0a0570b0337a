package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "symptomctl",
		Short: "Curate and exercise the symptom vocabulary",
		Long: "symptomctl seeds the symptom vocabulary from a YAML file, resolves queries\n" +
			"against a store without starting the server and lists unmapped terms.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newUnmappedCmd())
	root.Version = version
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
