package market

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const historyCSV = "date,price\n2026-01-02,100.0\n2026-01-03,101.5\n2026-01-04,99.25\n"

func writeHistory(t *testing.T, dir, name string, compress string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	switch compress {
	case "gz":
		w := gzip.NewWriter(f)
		_, err = w.Write([]byte(historyCSV))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "xz":
		w, err := xz.NewWriter(f)
		require.NoError(t, err)
		_, err = w.Write([]byte(historyCSV))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		_, err = f.WriteString(historyCSV)
		require.NoError(t, err)
	}
}

func TestCSVProviderVariants(t *testing.T) {
	dir := t.TempDir()
	writeHistory(t, dir, "AAPL.csv", "")
	writeHistory(t, dir, "MSFT.csv.gz", "gz")
	writeHistory(t, dir, "AMZN.csv.xz", "xz")

	p, err := NewCSVProvider(dir, nil, zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	for _, sym := range []string{"AAPL", "MSFT", "AMZN"} {
		s, err := p.PriceHistory(ctx, sym, 100)
		require.NoError(t, err, sym)
		require.Equal(t, 3, s.Len(), sym)
		assert.Equal(t, 100.0, s.At(0).Price)
		assert.Equal(t, 99.25, s.At(2).Price)
	}
}

func TestCSVProviderLookbackWindow(t *testing.T) {
	dir := t.TempDir()
	writeHistory(t, dir, "AAPL.csv", "")

	p, err := NewCSVProvider(dir, nil, zerolog.Nop())
	require.NoError(t, err)

	s, err := p.PriceHistory(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 101.5, s.At(0).Price)
}

func TestCSVProviderMissingSymbol(t *testing.T) {
	p, err := NewCSVProvider(t.TempDir(), nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = p.PriceHistory(context.Background(), "NOPE", 10)
	assert.Error(t, err)
}

func TestCSVProviderBadDir(t *testing.T) {
	_, err := NewCSVProvider("/does/not/exist", nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestCSVProviderPositions(t *testing.T) {
	dir := t.TempDir()
	port := &Portfolio{Positions: []Position{{Symbol: "AAPL", Quantity: 1}}}

	p, err := NewCSVProvider(dir, port, zerolog.Nop())
	require.NoError(t, err)

	got, err := p.Positions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port, got)

	bare, err := NewCSVProvider(dir, nil, zerolog.Nop())
	require.NoError(t, err)
	_, err = bare.Positions(context.Background())
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	d, err = parseDate("2026-01-02T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Hour())

	_, err = parseDate("02/01/2026")
	assert.Error(t, err)
}
