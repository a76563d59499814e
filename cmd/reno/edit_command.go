package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/renolabs/reno/internal/session"
	"github.com/renolabs/reno/internal/tui"
)

func newEditCommand(catalogFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive release-note form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(*catalogFlag)
		},
	}
}

func runEdit(catalogFlag string) error {
	cat, err := loadCatalog(catalogFlag)
	if err != nil {
		return err
	}
	sess := session.New(cat)
	book := openLogbook()

	p := tea.NewProgram(
		tui.NewApp(sess, book),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reno: run form: %w", err)
	}
	return nil
}
