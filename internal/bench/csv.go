package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes results as CSV with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)

	header := []string{"op", "order", "size", "ops", "total_ns", "ns_per_op", "alloc_mb", "heap_objects"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.Op,
			strconv.Itoa(r.Order),
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Ops),
			strconv.FormatInt(r.Total.Nanoseconds(), 10),
			strconv.FormatFloat(r.NsPerOp, 'f', 1, 64),
			strconv.FormatUint(r.AllocMB, 10),
			strconv.FormatUint(r.HeapObjects, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
