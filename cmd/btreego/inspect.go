package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/btreego/manifest"
)

func newInspectCmd() *cobra.Command {
	var storeURL string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the committed manifests of a snapshot store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := resolveStore(ctx, storeURL)
			if err != nil {
				return err
			}

			if store == nil {
				return fmt.Errorf("--store is required")
			}

			ms := manifest.NewStore(store)

			versions, err := ms.Versions(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(versions) == 0 {
				fmt.Fprintln(out, "store is empty")
				return nil
			}

			man, err := ms.Load(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "versions: %d (current %d)\n", len(versions), man.ID)
			fmt.Fprintf(out, "created:  %s\n", man.CreatedAt.Format(time.RFC3339))

			var total int64

			for _, tab := range man.Tables {
				fmt.Fprintf(out, "  %-20s order=%-4d keys=%-10s %10s  %s\n",
					tab.Name, tab.Order,
					humanize.Comma(int64(tab.Keys)),
					humanize.IBytes(uint64(tab.Bytes)), // nolint gosec
					tab.Path,
				)

				total += tab.Bytes
			}

			fmt.Fprintf(out, "total: %s in %d table(s)\n", humanize.IBytes(uint64(total)), len(man.Tables)) // nolint gosec

			return nil
		},
	}

	cmd.Flags().StringVar(&storeURL, "store", "", "snapshot store url")

	return cmd
}
