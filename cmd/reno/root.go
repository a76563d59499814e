// cmd/reno/root.go
//
// Command wiring. Every subcommand that touches a release note loads the
// catalog first; the catalog file is the only configuration reno has.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/renolabs/reno/internal/catalog"
	"github.com/renolabs/reno/internal/logging"
)

func newRootCommand() *cobra.Command {
	var catalogFlag string

	rootCmd := &cobra.Command{
		Use:           "reno",
		Short:         "Assemble and share release notes from your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `reno` opens the form, same as `reno edit`.
			return runEdit(catalogFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&catalogFlag, "catalog", "c", "", "Catalog file path (default ./"+catalog.DefaultFile+")")

	rootCmd.AddCommand(newEditCommand(&catalogFlag))
	rootCmd.AddCommand(newShowCommand(&catalogFlag))
	rootCmd.AddCommand(newDecodeCommand(&catalogFlag))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// loadCatalog resolves the catalog path and loads it.
func loadCatalog(flagValue string) (*catalog.Catalog, error) {
	path := flagValue
	if path == "" {
		path = catalog.DefaultFile
	}
	cat, err := catalog.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no catalog at %s: run `reno init` to create one, or pass --catalog", path)
		}
		return nil, err
	}
	return cat, nil
}

// openLogbook opens the session log under $RENO_HOME (default ~/.reno).
// Logging is best-effort: a nil logbook is safe to use everywhere.
func openLogbook() *logging.Logbook {
	home := os.Getenv("RENO_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		home = filepath.Join(userHome, ".reno")
	}
	book, err := logging.New(filepath.Join(home, "logs", "reno.log"))
	if err != nil {
		return nil
	}
	return book
}
