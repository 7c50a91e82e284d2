package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, trade_id, instrument, side, units, entry_price, exit_price,
		 open_time, close_time, bars_held, realized_pl, reason, law, tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.TradeID, t.Instrument, t.Side, t.Units, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.BarsHeld, t.RealizedPL,
		t.Reason, t.Law, t.Tag,
	)
	return err
}

func (j *SQLite) RecordRejection(r RejectionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO rejections (run_id, time, kind, law, reason, tag)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Time, r.Kind, r.Law, r.Reason, r.Tag,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, equity, drawdown)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Equity, e.Drawdown,
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
	}
	return rec, err
}

// ListTradesByRun returns every trade of one run in close order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE run_id = ?
		ORDER BY close_time ASC`, runID)
}

// ListTradesClosedBetween returns trades whose close_time is in [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start, end)
}

func (j *SQLite) listTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListRejectionsByRun returns every refused engagement of one run.
func (j *SQLite) ListRejectionsByRun(runID string) ([]RejectionRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, kind, law, reason, tag
		FROM rejections
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RejectionRecord
	for rows.Next() {
		var r RejectionRecord
		if err := rows.Scan(&r.RunID, &r.Time, &r.Kind, &r.Law, &r.Reason, &r.Tag); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

const tradeColumns = `run_id, trade_id, instrument, side, units, entry_price, exit_price,
	open_time, close_time, bars_held, realized_pl, reason, law, tag`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	err := row.Scan(
		&rec.RunID,
		&rec.TradeID,
		&rec.Instrument,
		&rec.Side,
		&rec.Units,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.BarsHeld,
		&rec.RealizedPL,
		&rec.Reason,
		&rec.Law,
		&rec.Tag,
	)
	return rec, err
}
