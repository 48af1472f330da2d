package bench

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WritePlot renders ns/op against tree size for one operation, one line per
// order, and saves the chart to path. The image format is inferred from the
// file extension.
func WritePlot(path, op string, results []Result) error {
	byOrder := make(map[int]plotter.XYs)

	var orders []int

	for _, r := range results {
		if r.Op != op {
			continue
		}

		if _, ok := byOrder[r.Order]; !ok {
			orders = append(orders, r.Order)
		}

		byOrder[r.Order] = append(byOrder[r.Order], plotter.XY{X: float64(r.Size), Y: r.NsPerOp})
	}

	if len(orders) == 0 {
		return fmt.Errorf("no results for op %q", op)
	}

	sort.Ints(orders)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s latency", op)
	p.X.Label.Text = "keys"
	p.Y.Label.Text = "ns/op"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Legend.Left = true

	args := make([]any, 0, 2*len(orders))

	for _, order := range orders {
		series := byOrder[order]
		sort.Slice(series, func(i, j int) bool { return series[i].X < series[j].X })

		args = append(args, fmt.Sprintf("order %d", order), series)
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
