package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renolabs/reno/internal/codec"
)

func newDecodeCommand(catalogFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <transport-string>",
		Short: "Validate a transport string against the current catalog",
		Long: "Decode checks that a pasted transport string is intact and that every\n" +
			"value in it is valid under the current catalog. It prints a one-line\n" +
			"verdict and exits non-zero on any failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(*catalogFlag)
			if err != nil {
				return err
			}
			r, err := codec.Decode(args[0], cat.Validator())
			if err != nil {
				return err
			}
			date := r.Date.String()
			if date == "" {
				date = "unset"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d service(s), date %s\n", len(r.Services), date)
			return nil
		},
	}
}
