package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sqlVerbRegex = regexp.MustCompile(`^\s*(\w+)`)

	pgOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "asset_qc",
		Name:      "pg_op_duration_milliseconds",
		Help:      "Time spent on a postgres operation issued by the asset store",
		Buckets:   []float64{5, 25, 100, 300, 1000, 5000},
	}, []string{"op", "verb"})

	pgOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "asset_qc",
		Name:      "pg_op_total",
		Help:      "Number of postgres operations issued by the asset store",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(pgOpLatency, pgOpTotal)
}

// metricInterceptor records latency and outcome of the driver calls the stores rely on.
type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	start := time.Now()
	tx, err := conn.BeginTx(ctx, opts)
	mi.measure("begin", "begin", start, err)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	res, err := conn.ExecContext(ctx, query, args)
	mi.measure("exec", sqlVerb(query), start, err)
	return res, err
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	rows, err := conn.QueryContext(ctx, query, args)
	mi.measure("query", sqlVerb(query), start, err)
	return ctx, rows, err
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, stmt driver.StmtExecContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	res, err := stmt.ExecContext(ctx, args)
	mi.measure("stmt-exec", sqlVerb(query), start, err)
	return res, err
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, stmt driver.StmtQueryContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	rows, err := stmt.QueryContext(ctx, args)
	mi.measure("stmt-query", sqlVerb(query), start, err)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, tx driver.Tx) error {
	start := time.Now()
	err := tx.Commit()
	mi.measure("commit", "commit", start, err)
	return err
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, tx driver.Tx) error {
	start := time.Now()
	err := tx.Rollback()
	mi.measure("rollback", "rollback", start, err)
	return err
}

func (mi *metricInterceptor) measure(op, verb string, start time.Time, err error) {
	outcome := "ok"
	if err != nil && !errors.Is(err, driver.ErrSkip) {
		outcome = "error"
	}
	pgOpTotal.WithLabelValues(op, outcome).Inc()
	pgOpLatency.WithLabelValues(op, verb).Observe(float64(time.Since(start).Milliseconds()))
}

func sqlVerb(query string) string {
	m := sqlVerbRegex.FindStringSubmatch(query)
	if len(m) < 2 {
		return "unknown"
	}
	return strings.ToLower(m[1])
}
