package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgch "FinSignal/pkg/clickhouse"
	applogger "FinSignal/pkg/logger"
	"FinSignal/pkg/util"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHCandleStore implements CandleProvider backed by a ClickHouse daily candles table
// with columns (day Date, symbol String, open, high, low, close, volume Float64).
type CHCandleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client, table string) (*CHCandleStore, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	return &CHCandleStore{db: ch.DB(), table: table}, nil
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

// GetCandles returns the latest limit candles for symbol in ascending date order.
// 3d and 1w series are rolled up from the daily table.
func (s *CHCandleStore) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	start := time.Now()
	q, err := latestCandlesQuery(s.table, domrepo.Interval(interval))
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)

	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		s.logErr("query", symbol, interval, err)
		return nil, fmt.Errorf("get candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, limit)
	for rows.Next() {
		var (
			day time.Time
			c   models.Candle
		)
		if err := rows.Scan(&day, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			s.logErr("scan", symbol, interval, err)
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Time = util.DateKey(day)
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		s.logErr("rows", symbol, interval, err)
		return nil, fmt.Errorf("rows: %w", err)
	}

	reverseCandles(tmp)

	if s.l != nil {
		s.l.Info("clickhouse get_candles ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.String("interval", interval),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHCandleStore) logErr(stage, symbol, interval string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse get_candles "+stage+" error",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.String("interval", interval),
		applogger.Error(err),
	)
}

// latestCandlesQuery builds the newest-first query for iv. Arguments: symbol, limit.
func latestCandlesQuery(table string, iv domrepo.Interval) (string, error) {
	var bucket string
	switch iv {
	case domrepo.Interval1d:
		const q = `
        SELECT day, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY day DESC
        LIMIT ?
    `
		return fmt.Sprintf(q, table), nil
	case domrepo.Interval3d:
		bucket = "toStartOfInterval(day, INTERVAL 3 DAY)"
	case domrepo.Interval1w:
		bucket = "toMonday(day)"
	default:
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}

	const q = `
        SELECT %s AS bucket,
               argMin(open, day), max(high), min(low), argMax(close, day), sum(volume)
        FROM %s
        WHERE symbol = ?
        GROUP BY bucket
        ORDER BY bucket DESC
        LIMIT ?
    `
	return fmt.Sprintf(q, bucket, table), nil
}

func reverseCandles(cs []models.Candle) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}

var _ domrepo.CandleProvider = (*CHCandleStore)(nil)
