package live

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/laws"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
	"github.com/rustyeddy/riskgate/strategies"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func testManager(t *testing.T, acct *risk.Account) *sim.Manager {
	t.Helper()
	ladder, err := risk.NewLadder([]risk.Tier{{Threshold: 0, Multiplier: 1}})
	require.NoError(t, err)
	m, err := sim.NewManager(sim.Config{
		Instrument: market.Instruments["EUR_USD"],
		Laws: laws.Config{
			MaxStopPips:         15,
			WinnerRR:            2.5,
			BreakevenBufferPips: 1,
			ZombieBars:          50,
			ZombieStepPips:      5,
		},
		Brain:   risk.Brain{Ladder: ladder, Regimes: risk.DefaultRegimeTable(), Floor: 0.05},
		Account: acct,
	})
	require.NoError(t, err)
	return m
}

func pushBars(s *ChannelStream, bars []market.Bar, err error) {
	go func() {
		for _, b := range bars {
			s.Push(b)
		}
		s.CloseWith(err)
	}()
}

func trendBars(n int, pipsPerBar float64) []market.Bar {
	bars := make([]market.Bar, 0, n)
	price := 1.1000
	for i := 0; i < n; i++ {
		move := pipsPerBar * 0.0001
		bars = append(bars, market.Bar{
			Time: t0.Add(time.Duration(i) * time.Minute),
			Open: price, High: price + move + 0.0002, Low: price - 0.0002,
			Close: price + move, Volume: 100,
		})
		price += move
	}
	return bars
}

func TestRouterRunsStreamToCompletion(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)
	stream := NewChannelStream(4)
	sink := &PaperSink{}

	r := &Router{
		Manager:  testManager(t, acct),
		Account:  acct,
		Stream:   stream,
		Strategy: &strategies.OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10, TakePips: 20},
		Sink:     sink,
		RunID:    "live-test",
	}

	pushBars(stream, trendBars(20, 5), nil)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 1, sink.Opens)
	assert.Equal(t, 1, sink.Closes)
	assert.Zero(t, r.Manager.OpenCount())
	assert.Greater(t, acct.Snapshot().Equity, 10000.0)
}

type failingJournal struct{}

func (failingJournal) RecordTrade(journal.TradeRecord) error         { return errors.New("disk full") }
func (failingJournal) RecordRejection(journal.RejectionRecord) error { return errors.New("disk full") }
func (failingJournal) RecordEquity(journal.EquityPoint) error        { return errors.New("disk full") }
func (failingJournal) Close() error                                  { return nil }

func TestRouterLogsJournalFailures(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)
	stream := NewChannelStream(4)
	var buf bytes.Buffer

	r := &Router{
		Manager:  testManager(t, acct),
		Account:  acct,
		Stream:   stream,
		Strategy: &strategies.OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10, TakePips: 20},
		Sink:     &PaperSink{},
		Journal:  failingJournal{},
		RunID:    "live-test",
		Logger:   log.New(&buf, "", 0),
	}

	pushBars(stream, trendBars(20, 5), nil)
	require.NoError(t, r.Run(context.Background()), "journal failures must not stop the stream")

	assert.Contains(t, buf.String(), "journal trade")
	assert.Contains(t, buf.String(), "journal equity")
}

func TestRouterDrainsOnCancel(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)
	stream := NewChannelStream(4)
	sink := &PaperSink{}

	r := &Router{
		Manager:  testManager(t, acct),
		Account:  acct,
		Stream:   stream,
		Strategy: &strategies.OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10, TakePips: 500},
		Sink:     sink,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Feed a few flat bars so a position opens, then cancel mid-stream.
	for _, b := range trendBars(3, 0) {
		stream.Push(b)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Manager.OpenCount(), "cancel must not abandon positions")
	require.Len(t, r.Manager.Ledger(), 1)
	assert.Equal(t, sim.ReasonEndOfData, r.Manager.Ledger()[0].Reason)
	assert.Equal(t, 1, sink.Closes)
}

func TestRouterStreamErrorPropagates(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)
	stream := NewChannelStream(4)
	boom := errors.New("feed lost")

	r := &Router{
		Manager:  testManager(t, acct),
		Account:  acct,
		Stream:   stream,
		Strategy: strategies.Noop{},
		Sink:     &PaperSink{},
	}

	pushBars(stream, trendBars(2, 1), boom)
	assert.ErrorIs(t, r.Run(context.Background()), boom)
}

type rejectingSink struct {
	PaperSink
}

func (s *rejectingSink) Opened(p *sim.Position) error {
	s.Opens++
	return errors.New("insufficient margin")
}

func TestRouterForceClosesOnSinkReject(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)
	stream := NewChannelStream(4)
	sink := &rejectingSink{}

	r := &Router{
		Manager:  testManager(t, acct),
		Account:  acct,
		Stream:   stream,
		Strategy: &strategies.OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10, TakePips: 20},
		Sink:     sink,
	}

	pushBars(stream, trendBars(5, 1), nil)
	require.NoError(t, r.Run(context.Background()))

	assert.Zero(t, r.Manager.OpenCount())
	require.NotEmpty(t, r.Manager.Ledger())
	assert.Equal(t, sim.ReasonBroker, r.Manager.Ledger()[0].Reason)
}

func TestRunGroupSharedAccount(t *testing.T) {
	t.Parallel()
	acct := risk.NewAccount(10000)

	mk := func() (*Router, *ChannelStream) {
		stream := NewChannelStream(4)
		return &Router{
			Manager:  testManager(t, acct),
			Account:  acct,
			Stream:   stream,
			Strategy: &strategies.OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10, TakePips: 20},
			Sink:     &PaperSink{},
		}, stream
	}

	r1, s1 := mk()
	r2, s2 := mk()
	pushBars(s1, trendBars(20, 5), nil)
	pushBars(s2, trendBars(20, 5), nil)

	require.NoError(t, RunGroup(context.Background(), r1, r2))

	// Both winners land on the one shared account.
	assert.Greater(t, acct.Snapshot().Equity, 10000.0)
	assert.Zero(t, r1.Manager.OpenCount())
	assert.Zero(t, r2.Manager.OpenCount())
}
