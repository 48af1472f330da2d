package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/internal/workload"
	"github.com/hupe1980/btreego/model"
)

func newDemoCmd() *cobra.Command {
	var (
		count      int
		order      int
		seed       int64
		storeURL   string
		stringKeys bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Load synthetic records and walk through the core operations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := resolveStore(ctx, storeURL)
			if err != nil {
				return err
			}

			b := btreego.NewBuilder().Order(order)
			if store != nil {
				b = b.Store(store).Zstd()
			}

			db, err := b.Build()
			if err != nil {
				return err
			}
			defer db.Close()

			customers, err := db.CreateTable(ctx, "customers", 0)
			if err != nil {
				return err
			}

			orders, err := db.CreateTable(ctx, "orders", 0)
			if err != nil {
				return err
			}

			rng := workload.NewRNG(seed)

			custKeys := rng.UniqueIntKeys(count, int64(count)*8)
			if stringKeys {
				custKeys = rng.UniqueStringKeys(count, int64(count)*8)
			}

			records := rng.Records(count)

			start := time.Now()

			for i, k := range custKeys {
				if err := customers.Insert(ctx, k, records[i]); err != nil {
					return err
				}
			}

			orderCount := max(count/2, 1)
			orderKeys := rng.ShuffledIntKeys(orderCount)
			buyers := rng.Sample(custKeys, orderCount)

			for i, k := range orderKeys {
				rec := model.Record{
					"customer": buyers[i].String(),
					"quantity": i%5 + 1,
					"total":    float64((i%90)*100+250) / 100,
				}
				if err := orders.Insert(ctx, k, rec); err != nil {
					return err
				}
			}

			log.Info().Msgf("inserted %s customers and %s orders in %s",
				humanize.Comma(int64(count)), humanize.Comma(int64(orderCount)),
				time.Since(start).Round(time.Millisecond))

			for _, tab := range []*btreego.Table{customers, orders} {
				stats := tab.Stats()
				log.Info().Msgf("%s: order=%d keys=%s height=%d leaves=%s internals=%s",
					tab.Name(),
					stats.Order,
					humanize.Comma(int64(stats.Keys)),
					stats.Height,
					humanize.Comma(int64(stats.LeafNodes)),
					humanize.Comma(int64(stats.InternalNodes)),
				)
			}

			probe := custKeys[len(custKeys)/2]

			rec, err := customers.Get(ctx, probe)
			if err != nil {
				return err
			}

			log.Info().Msgf("lookup %s -> %v", probe, rec["name"])

			rec["active"] = false
			if err := customers.Update(ctx, probe, rec); err != nil {
				return err
			}

			if rec, err = customers.Get(ctx, probe); err != nil {
				return err
			}

			log.Info().Msgf("updated %s -> active=%v", probe, rec["active"])

			lo, hi := custKeys[0], custKeys[1]
			if model.Compare(lo, hi) > 0 {
				lo, hi = hi, lo
			}

			entries, err := customers.Range(ctx, lo, hi)
			if err != nil {
				return err
			}

			log.Info().Msgf("range [%s, %s] -> %s entries", lo, hi, humanize.Comma(int64(len(entries))))

			if err := customers.Delete(ctx, probe); err != nil {
				return err
			}

			if _, err := customers.Get(ctx, probe); err != nil {
				log.Info().Msgf("after delete, lookup %s -> %v", probe, err)
			}

			if count <= 64 {
				fmt.Fprint(cmd.OutOrStdout(), customers.Text())
			}

			if store == nil {
				return nil
			}

			man, err := db.Save(ctx)
			if err != nil {
				return err
			}

			log.Info().Msgf("snapshot version %d saved (%d tables)", man.ID, len(man.Tables))

			if err := db.Close(); err != nil {
				return err
			}

			db2, err := btreego.OpenFromStore(ctx, store)
			if err != nil {
				return err
			}
			defer db2.Close()

			reloaded, err := db2.Table("customers")
			if err != nil {
				return err
			}

			if got, want := reloaded.Len(), count-1; got != want {
				return fmt.Errorf("round trip: customers has %d records, want %d", got, want)
			}

			if model.Compare(custKeys[0], probe) != 0 {
				if _, err := reloaded.Get(ctx, custKeys[0]); err != nil {
					return fmt.Errorf("round trip: lookup %s: %w", custKeys[0], err)
				}
			}

			log.Info().Msgf("round trip verified: reloaded %d tables from version %d", len(db2.Tables()), man.ID)

			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 10_000, "number of customer records to load")
	cmd.Flags().IntVar(&order, "order", 64, "tree order")
	cmd.Flags().Int64Var(&seed, "seed", 1, "workload seed")
	cmd.Flags().StringVar(&storeURL, "store", "", "snapshot store url for the save and reload round trip")
	cmd.Flags().BoolVar(&stringKeys, "string-keys", false, "use string keys instead of integers")

	return cmd
}
