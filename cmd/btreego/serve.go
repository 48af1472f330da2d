package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/codec"
	"github.com/hupe1980/btreego/internal/rest"
	"github.com/hupe1980/btreego/persistence"
	"github.com/hupe1980/btreego/prom"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		storeURL    string
		order       int
		compression string
		codecName   string
		autosave    bool
		rateLimit   int
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the database over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := resolveStore(ctx, storeURL)
			if err != nil {
				return err
			}

			if autosave && store == nil {
				return fmt.Errorf("--autosave requires --store")
			}

			comp, err := persistence.ParseCompression(compression)
			if err != nil {
				return err
			}

			enc, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}

			logger := btreego.NewTextLogger(slog.LevelInfo)

			opts := []btreego.Option{
				btreego.WithOrder(order),
				btreego.WithLogger(logger),
				btreego.WithMetricsCollector(prom.NewCollector(nil)),
				btreego.WithCodec(enc),
				btreego.WithCompression(comp),
			}

			var db *btreego.DB

			if store != nil {
				opts = append(opts, btreego.WithAutosave(autosave))
				db, err = btreego.OpenFromStore(ctx, store, opts...)
			} else {
				db, err = btreego.New(opts...)
			}

			if err != nil {
				return err
			}
			defer db.Close()

			cfg := rest.DefaultConfig()
			cfg.Address = addr
			cfg.RateLimit = rateLimit
			cfg.EnableMetrics = !noMetrics

			srv := rest.NewServer(cfg, db, logger)
			if err := srv.Start(); err != nil {
				return err
			}

			log.Info().Str("addr", addr).Int("tables", len(db.Tables())).Msg("serving")

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeURL, "store", "", "snapshot store url (memory://, file:///dir, s3://bucket/prefix, ...)")
	cmd.Flags().IntVar(&order, "order", btreego.DefaultOrder, "default order for new tables")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "snapshot compression (none|lz4|zstd)")
	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "snapshot codec (json|go-json)")
	cmd.Flags().BoolVar(&autosave, "autosave", false, "save a snapshot after every mutation (needs --store)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 100, "requests per second per client, 0 disables")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
