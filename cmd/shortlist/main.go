package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shortlist-app/shortlist/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "shortlist",
		Short:   "A multi-user to-do list and URL shortener",
		Long:    "Shortlist — per-user to-dos and short links behind one REST API.",
		Version: fmt.Sprintf("%s (%s, %s)", build.Version, build.Commit, build.Branch),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
