package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/riskgate/market"
)

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))
	return path
}

func drain(t *testing.T, f BarFeed) []market.Bar {
	t.Helper()
	var out []market.Bar
	for {
		b, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestCSVBarFeedParsesRows(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, `time,open,high,low,close,volume
2026-03-02T09:00:00Z,1.1000,1.1010,1.0995,1.1005,1200

2026-03-02T09:01:00Z,1.1005,1.1015,1.1000,1.1010,900
`)
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	require.Len(t, bars, 2)
	assert.InDelta(t, 1.1005, bars[0].Close, 1e-9)
	assert.InDelta(t, 900, bars[1].Volume, 1e-9)
	assert.Equal(t, 2026, bars[0].Time.Year())
}

func TestCSVBarFeedWithoutHeaderOrVolume(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, "2026-03-02T09:00:00Z,1.1000,1.1010,1.0995,1.1005\n")
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	require.Len(t, bars, 1)
	assert.Zero(t, bars[0].Volume)
}

func TestCSVBarFeedWindowFilter(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, `2026-03-02T09:00:00Z,1.1,1.2,1.0,1.1
2026-03-02T10:00:00Z,1.1,1.2,1.0,1.1
2026-03-02T11:00:00Z,1.1,1.2,1.0,1.1
`)
	from := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	f, err := NewCSVBarFeed(path, from, to)
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	require.Len(t, bars, 1, "window is [from, to)")
	assert.True(t, bars[0].Time.Equal(from))
}

func TestCSVBarFeedBadPrice(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, "2026-03-02T09:00:00Z,1.1,oops,1.0,1.1\n")
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	assert.Error(t, err)
}

func TestCSVBarFeedTruncatedRowAborts(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, `time,open,high,low,close
2026-03-02T09:00:00Z,1.1000,1.1010,1.0995,1.1005
2026-03-02T09:01:00Z,1.1005,1.1015
`)
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	_, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok, "the intact row still parses")

	_, _, err = f.Next()
	require.Error(t, err, "a truncated row must abort, not skip")
	assert.Contains(t, err.Error(), "malformed bar row")
}

func TestCSVBarFeedEmptyTimestampAborts(t *testing.T) {
	t.Parallel()
	path := writeCSV(t, ",1.1,1.2,1.0,1.1\n")
	f, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty timestamp")
}

func TestSliceFeed(t *testing.T) {
	t.Parallel()
	bars := market.Synthetic(market.SyntheticConfig{
		Start:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Bars:        5,
		StartPrice:  1.1,
		VolPips:     5,
		PipLocation: -4,
	})
	f := NewSliceFeed(bars)
	got := drain(t, f)
	assert.Len(t, got, 5)
	require.NoError(t, f.Close())

	_, ok, err := f.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
