package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

type localeRow struct {
	Locale     string   `json:"locale"     yaml:"locale"`
	Namespaces []string `json:"namespaces" yaml:"namespaces"`
}

func (a *app) localesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List locales and their namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			rows := make([]localeRow, 0)
			for _, loc := range engine.Locales() {
				rows = append(rows, localeRow{Locale: loc, Namespaces: engine.Namespaces(loc)})
			}
			return printOutput(cmd.OutOrStdout(), output, rows, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "LOCALE\tNAMESPACES")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\n", r.Locale, strings.Join(r.Namespaces, ","))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}

func (a *app) entriesCommand() *cobra.Command {
	var output, query string

	cmd := &cobra.Command{
		Use:   "entries <locale>",
		Short: "Print the flattened entries of a locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			entries := engine.Entries(args[0], query)
			return printOutput(cmd.OutOrStdout(), output, entries, func(tw *tabwriter.Writer) {
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.Text)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search over keys and values")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}

func (a *app) getCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <locale> <namespace> <key>",
		Short: "Print one field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			v, ok := engine.Lookup(args[0], args[1], args[2])
			if !ok {
				return fmt.Errorf("%s not found", locale.CompositeKey(args[1], args[2]))
			}
			return printOutput(cmd.OutOrStdout(), output, v, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, v.String())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}
