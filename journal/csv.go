package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/quantlab/backtest"
)

// ExportEquityCSV writes an equity curve as "time,value" rows with a header,
// suitable for plotting outside the engine.
func ExportEquityCSV(w io.Writer, points []backtest.EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "value"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			p.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
