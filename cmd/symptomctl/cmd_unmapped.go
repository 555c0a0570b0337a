package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-symptom-mapper/store"
)

func newUnmappedCmd() *cobra.Command {
	var flags struct {
		db    string
		limit int
	}

	cmd := &cobra.Command{
		Use:   "unmapped",
		Short: "List the most recent chunks that failed to resolve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(flags.db)
			if err != nil {
				return err
			}
			defer db.Close()

			terms, err := db.ListUnmappedTerms(cmd.Context(), flags.limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(terms) == 0 {
				fmt.Fprintln(out, "No unmapped terms recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RECORDED\tCHUNK\tBEST SCORE")
			for _, term := range terms {
				score := "-"
				if term.BestScore != nil {
					score = fmt.Sprintf("%.2f", *term.BestScore)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", term.RecordedAt.Format(time.RFC3339), term.RawChunk, score)
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.db, "db", "", "SQLite database file (required)")
	f.IntVar(&flags.limit, "limit", 20, "Maximum number of terms to list")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}
