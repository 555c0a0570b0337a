package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/engine"
	"github.com/gcbaptista/go-symptom-mapper/store"
)

func newResolveCmd() *cobra.Command {
	var flags struct {
		db      string
		seed    string
		config  string
		explain bool
	}

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve a free-text query and print the matched symptoms as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings := config.DefaultMatcherSettings()
			if flags.config != "" {
				loaded, err := config.LoadMatcherSettings(flags.config)
				if err != nil {
					return err
				}
				settings = loaded
			}

			backend, err := store.OpenBackend(flags.db)
			if err != nil {
				return err
			}
			defer backend.Close()

			if flags.seed != "" {
				vocab, err := store.LoadVocabularyFile(flags.seed)
				if err != nil {
					return err
				}
				if _, err := store.Seed(ctx, backend, vocab); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}

			eng, err := engine.New(ctx, backend, backend, settings)
			if err != nil {
				return err
			}
			// Close flushes unmapped terms before the store is closed.
			defer eng.Close()

			resolution := eng.ResolveDetailed(ctx, args[0])
			var out any = resolution.Symptoms()
			if flags.explain {
				out = resolution
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.db, "db", "", "SQLite database file (empty uses an in-memory store)")
	f.StringVar(&flags.seed, "seed", "", "YAML vocabulary file loaded before resolving")
	f.StringVar(&flags.config, "config", "", "YAML file with matcher settings")
	f.BoolVar(&flags.explain, "explain", false, "Print the full resolution with per-chunk outcomes")
	return cmd
}
