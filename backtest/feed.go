package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/riskgate/market"
)

// BarFeed yields bars one at a time. Implementations must be deterministic
// and return (ok=false, err=nil) at EOF. Ordering is not the feed's problem;
// the driver validates it.
type BarFeed interface {
	Next() (b market.Bar, ok bool, err error)
	Close() error
}

// CSVBarFeed reads canonical bar CSV rows:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339 or RFC3339Nano.
//
// It optionally filters bars to [From, To) if provided.
// Header row ("time,...") is allowed.
// A malformed data row is a feed-integrity error and aborts the feed;
// silently skipping rows would make a run irreproducible.
type CSVBarFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func NewCSVBarFeed(path string, from, to time.Time) (*CSVBarFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVBarFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVBarFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVBarFeed) Next() (market.Bar, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return market.Bar{}, false, err
		}
		if !inRange(b.Time, f.from, f.to) {
			continue
		}
		return b, true, nil
	}
}

func parseBarRow(row []string) (market.Bar, error) {
	// Need at least: time,open,high,low,close
	if len(row) < 5 {
		return market.Bar{}, fmt.Errorf("malformed bar row: %d fields, want at least 5", len(row))
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, fmt.Errorf("malformed bar row: empty timestamp")
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return market.Bar{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	var b market.Bar
	b.Time = t
	for i, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad price %q: %w", row[i+1], err)
		}
		*dst = v
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
		b.Volume = v
	}
	return b, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// SliceFeed replays an in-memory bar slice, typically synthetic data or a
// test fixture.
type SliceFeed struct {
	bars []market.Bar
	i    int
}

func NewSliceFeed(bars []market.Bar) *SliceFeed {
	return &SliceFeed{bars: bars}
}

func (f *SliceFeed) Next() (market.Bar, bool, error) {
	if f.i >= len(f.bars) {
		return market.Bar{}, false, nil
	}
	b := f.bars[f.i]
	f.i++
	return b, true, nil
}

func (f *SliceFeed) Close() error { return nil }
