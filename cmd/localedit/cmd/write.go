package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

func (a *app) setCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "set <locale> <namespace> <key> <value>",
		Short: "Add or replace one field and write the file back",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := locale.StringValue(args[3])
			if asJSON {
				v, err := locale.ParseValue([]byte(args[3]))
				if err != nil {
					return fmt.Errorf("parsing value: %w", err)
				}
				value = v
			}
			return a.mutate(cmd.Context(), args[0], args[1], func(ctx context.Context, e *locale.Engine, path string) error {
				return e.AddField(ctx, path, args[2], value)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "parse the value as JSON instead of storing a string")
	return cmd
}

func (a *app) unsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <locale> <namespace> <key>",
		Short: "Remove one field and write the file back",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd.Context(), args[0], args[1], func(ctx context.Context, e *locale.Engine, path string) error {
				return e.DeleteField(ctx, path, args[2])
			})
		},
	}
}

func (a *app) mutate(ctx context.Context, loc, ns string, fn func(context.Context, *locale.Engine, string) error) error {
	engine, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	path, ok := engine.Path(loc, ns)
	if !ok {
		return fmt.Errorf("namespace %s/%s is not loaded", loc, ns)
	}
	return fn(ctx, engine, path)
}
