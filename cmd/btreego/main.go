// Command btreego is an in-memory B+ tree database with snapshot
// persistence. It serves a REST API, loads synthetic demo data, runs
// latency sweeps and inspects snapshot stores.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "btreego",
		Short:         "In-memory B+ tree database with snapshot persistence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newDemoCmd(),
		newBenchCmd(),
		newRenderCmd(),
		newInspectCmd(),
	)

	return cmd
}
