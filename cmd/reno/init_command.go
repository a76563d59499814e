package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renolabs/reno/internal/catalog"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a sample catalog file to the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := catalog.WriteSample(catalog.DefaultFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: edit the contact and service lists to match your team\n", catalog.DefaultFile)
			return nil
		},
	}
}
