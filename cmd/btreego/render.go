package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/render"
)

func newRenderCmd() *cobra.Command {
	var (
		storeURL string
		table    string
		format   string
		values   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a table's tree from a snapshot store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := resolveStore(ctx, storeURL)
			if err != nil {
				return err
			}

			if store == nil {
				return fmt.Errorf("--store is required")
			}

			db, err := btreego.OpenFromStore(ctx, store)
			if err != nil {
				return err
			}
			defer db.Close()

			tab, err := db.Table(table)
			if err != nil {
				return err
			}

			switch format {
			case "dot":
				var optFns []func(*render.Options)
				if values {
					optFns = append(optFns, render.WithValues())
				}

				fmt.Fprint(cmd.OutOrStdout(), tab.DOT(optFns...))
			case "text":
				fmt.Fprint(cmd.OutOrStdout(), tab.Text())
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&storeURL, "store", "", "snapshot store url")
	cmd.Flags().StringVar(&table, "table", "", "table to render")
	cmd.Flags().StringVar(&format, "format", "dot", "output format (dot|text)")
	cmd.Flags().BoolVar(&values, "values", false, "include record values in dot output")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}
