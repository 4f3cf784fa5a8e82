package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subvox/internal/language"
	"subvox/internal/subtitle"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported subtitle output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range subtitle.Names() {
				rows = append(rows, []string{name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Format"}, rows))
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported recognition languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, lang := range language.List() {
				rows = append(rows, []string{lang.Code, lang.Display})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Language"}, rows))
			return nil
		},
	}
}
