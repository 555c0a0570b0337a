package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-symptom-mapper/store"
)

func newSeedCmd() *cobra.Command {
	var flags struct {
		file string
		db   string
	}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert symptoms, aliases and typo rules from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, err := store.LoadVocabularyFile(flags.file)
			if err != nil {
				return err
			}

			db, err := store.Open(flags.db)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := store.Seed(cmd.Context(), db, vocab)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d symptoms, %d aliases, %d typo rules into %s\n",
				result.Symptoms, result.Aliases, result.TypoRules, flags.db)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.file, "file", "", "YAML vocabulary file (required)")
	f.StringVar(&flags.db, "db", "", "SQLite database file (required)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}
