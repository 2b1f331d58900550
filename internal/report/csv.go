package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/benmeehan/procbench/internal/models"
)

var csvHeader = []string{"iter", "procs", "snapshot_ms", "metrics_ms", "total_ms", "alloc_bytes"}

// WriteCSV writes one row per iteration, preceded by a header row.
func WriteCSV(w io.Writer, results []models.IterationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Iteration),
			strconv.Itoa(r.Processes),
			formatMs(r.SnapshotMs),
			formatMs(r.MetricsMs),
			formatMs(r.TotalMs),
			strconv.FormatInt(r.AllocBytes, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 3, 64)
}
