package market

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

// CSVProvider serves price history from per-symbol files in a directory:
// <SYMBOL>.csv, <SYMBOL>.csv.gz or <SYMBOL>.csv.xz, each holding
// "date,price" rows (date as 2006-01-02 or RFC3339), oldest first.
// Positions are supplied explicitly at construction; a file-backed provider
// is a research fixture, not a broker.
type CSVProvider struct {
	dir       string
	positions *Portfolio
	log       zerolog.Logger
}

func NewCSVProvider(dir string, positions *Portfolio, log zerolog.Logger) (*CSVProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("market: history dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("market: %s is not a directory", dir)
	}
	return &CSVProvider{dir: dir, positions: positions, log: log}, nil
}

func (p *CSVProvider) PriceHistory(ctx context.Context, symbol string, lookback int) (*PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, open, err := p.resolve(symbol)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("market: open history for %s: %w", symbol, err)
	}
	defer f.Close()

	r, err := open(f)
	if err != nil {
		return nil, fmt.Errorf("market: decompress history for %s: %w", symbol, err)
	}

	points, err := readPricePoints(r)
	if err != nil {
		return nil, fmt.Errorf("market: parse %s: %w", path, err)
	}

	series, err := NewPriceSeries(symbol, points)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("symbol", symbol).Int("rows", series.Len()).Str("file", path).Msg("loaded history")
	return series.Window(lookback), nil
}

func (p *CSVProvider) Positions(ctx context.Context) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.positions == nil {
		return nil, fmt.Errorf("market: csv provider has no portfolio configured")
	}
	return p.positions, nil
}

// resolve picks the first existing file variant for symbol and returns the
// matching reader constructor.
func (p *CSVProvider) resolve(symbol string) (string, func(io.Reader) (io.Reader, error), error) {
	plain := func(r io.Reader) (io.Reader, error) { return r, nil }
	gz := func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }
	xzr := func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }

	variants := []struct {
		ext  string
		open func(io.Reader) (io.Reader, error)
	}{
		{".csv", plain},
		{".csv.gz", gz},
		{".csv.xz", xzr},
	}
	for _, v := range variants {
		path := filepath.Join(p.dir, symbol+v.ext)
		if _, err := os.Stat(path); err == nil {
			return path, v.open, nil
		}
	}
	return "", nil, fmt.Errorf("market: no history file for %s under %s", symbol, p.dir)
}

func readPricePoints(r io.Reader) ([]PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var points []PricePoint
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: want date,price", len(points)+1)
		}
		// Skip a header row if present.
		if len(points) == 0 {
			if _, err := strconv.ParseFloat(rec[1], 64); err != nil {
				continue
			}
		}
		ts, err := parseDate(rec[0])
		if err != nil {
			return nil, err
		}
		px, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", rec[1], err)
		}
		points = append(points, PricePoint{Time: ts, Price: px})
	}
	return points, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
