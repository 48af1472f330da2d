package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/btreego/internal/bench"
)

func newBenchCmd() *cobra.Command {
	var (
		sizes     []int
		orders    []int
		lookups   int
		ranges    int
		rangeSize int64
		seed      int64
		csvPath   string
		plotPath  string
		plotOp    string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure operation latency across tree orders and sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := bench.Config{
				Sizes:     sizes,
				Orders:    orders,
				Lookups:   lookups,
				Ranges:    ranges,
				RangeSize: rangeSize,
				Seed:      seed,
				OnResult:  func(r bench.Result) { log.Info().Msg(r.String()) },
			}

			results, err := bench.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}

				if err := bench.WriteCSV(f, results); err != nil {
					_ = f.Close()
					return err
				}

				if err := f.Close(); err != nil {
					return err
				}

				log.Info().Str("path", csvPath).Msg("results written")
			}

			if plotPath != "" {
				if err := bench.WritePlot(plotPath, plotOp, results); err != nil {
					return err
				}

				log.Info().Str("path", plotPath).Str("op", plotOp).Msg("plot written")
			}

			return nil
		},
	}

	def := bench.DefaultConfig()
	cmd.Flags().IntSliceVar(&sizes, "sizes", def.Sizes, "tree sizes to sweep")
	cmd.Flags().IntSliceVar(&orders, "orders", def.Orders, "tree orders to sweep")
	cmd.Flags().IntVar(&lookups, "lookups", def.Lookups, "point lookups per tree, 0 skips the phase")
	cmd.Flags().IntVar(&ranges, "ranges", def.Ranges, "range scans per tree, 0 skips the phase")
	cmd.Flags().Int64Var(&rangeSize, "range-size", def.RangeSize, "key width of each range scan")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "workload seed")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write results to this CSV file")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a latency chart to this file (png/svg/pdf)")
	cmd.Flags().StringVar(&plotOp, "plot-op", "search", "operation to chart (insert|search|range|delete)")

	return cmd
}
