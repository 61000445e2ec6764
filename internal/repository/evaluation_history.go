package repository

import (
	"context"
	"database/sql"
	"fmt"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/internal/domain/repository"
)

// ClickHouseHistory implements EvaluationHistory for ClickHouse.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates ClickHouse evaluation history storage.
func NewClickHouseHistory(db *sql.DB, table string) repository.EvaluationHistory {
	return &ClickHouseHistory{db: db, table: table}
}

// Schema returns idempotent DDL for the evaluation history table.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts DateTime,
			ticker String,
			price Float64,
			ath Float64,
			drawdown_pct Float64,
			volatility Nullable(Float64),
			credit_spread Nullable(Float64),
			regime LowCardinality(String)
		) ENGINE = MergeTree()
		ORDER BY (ticker, ts)`, table),
	}
}

func (s *ClickHouseHistory) Append(ctx context.Context, ev *models.RegimeEvaluation) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, ticker, price, ath, drawdown_pct, volatility, credit_spread, regime) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		ev.Timestamp,
		ev.Ticker,
		ev.Price,
		ev.ATH,
		ev.DrawdownPct,
		nullable(ev.Volatility),
		nullable(ev.CreditSpread),
		ev.RegimeID,
	)
	if err != nil {
		return fmt.Errorf("append evaluation: %w", err)
	}
	return nil
}

// Recent returns the newest evaluations, optionally filtered by ticker.
func (s *ClickHouseHistory) Recent(ctx context.Context, ticker string, limit int) ([]models.RegimeEvaluation, error) {
	q := fmt.Sprintf("SELECT ts, ticker, price, ath, drawdown_pct, volatility, credit_spread, regime FROM %s", s.table)
	args := []interface{}{}
	if ticker != "" {
		q += " WHERE ticker = ?"
		args = append(args, ticker)
	}
	q += " ORDER BY ts DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var out []models.RegimeEvaluation
	for rows.Next() {
		var ev models.RegimeEvaluation
		var vol, spread sql.NullFloat64
		if err := rows.Scan(&ev.Timestamp, &ev.Ticker, &ev.Price, &ev.ATH,
			&ev.DrawdownPct, &vol, &spread, &ev.RegimeID); err != nil {
			return nil, err
		}
		if vol.Valid {
			v := vol.Float64
			ev.Volatility = &v
		}
		if spread.Valid {
			v := spread.Float64
			ev.CreditSpread = &v
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
