package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renolabs/reno/internal/codec"
	"github.com/renolabs/reno/internal/render"
)

func newShowCommand(catalogFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transport-string>",
		Short: "Decode a transport string and print the release note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(*catalogFlag)
			if err != nil {
				return err
			}
			r, err := codec.Decode(args[0], cat.Validator())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Summary(r))
			return nil
		},
	}
}
