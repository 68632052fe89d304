package main

import (
	"fmt"
	"time"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			headHash, err := r.ResolveRef("HEAD")
			if err != nil {
				return fmt.Errorf("cannot resolve HEAD: %w", err)
			}

			commits, err := r.Log(headHash, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := headHash
			for _, c := range commits {
				short := string(current)
				if len(short) > 8 {
					short = short[:8]
				}

				if oneline {
					fmt.Fprintf(out, "%s %s\n", short, firstLine(c.Message))
				} else {
					fmt.Fprintf(out, "commit %s\n", current)
					fmt.Fprintf(out, "author %s\n", c.Author)
					fmt.Fprintf(out, "date   %s\n", time.Unix(c.Timestamp, 0).Format(time.RFC1123))
					fmt.Fprintf(out, "\n    %s\n\n", c.Message)
				}

				if len(c.Parents) == 0 {
					break
				}
				current = c.Parents[0]
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "one line per commit")
	cmd.Flags().IntVarP(&limit, "max-count", "n", 100, "limit the number of commits shown")

	return cmd
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
