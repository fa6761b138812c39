package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mo-amir99/course-marketplace-go/pkg/metrics"
)

// CustomLogger adapts gorm logging to slog and feeds query timings to metrics.
type CustomLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
	logLevel      logger.LogLevel
}

// NewCustomLogger creates a gorm logger that warns on queries slower than slowThreshold.
func NewCustomLogger(appLogger *slog.Logger, slowThreshold time.Duration) logger.Interface {
	return &CustomLogger{
		logger:        appLogger,
		slowThreshold: slowThreshold,
		logLevel:      logger.Warn,
	}
}

func (l *CustomLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *CustomLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	operation := queryOperation(sql)
	table := queryTable(sql)

	metrics.RecordDBQuery(operation, table, elapsed)

	switch {
	case err != nil && l.logLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "database query error",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
		)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.logLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "slow query detected",
			slog.Duration("elapsed", elapsed),
			slog.String("operation", operation),
			slog.String("table", table),
			slog.Int64("rows", rows),
			slog.String("sql", sql),
		)
	case l.logLevel >= logger.Info:
		l.logger.DebugContext(ctx, "database query",
			slog.Duration("elapsed", elapsed),
			slog.String("operation", operation),
			slog.String("table", table),
			slog.Int64("rows", rows),
		)
	}
}

// queryOperation returns the leading SQL keyword in upper case.
func queryOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}

// queryTable returns the first table named after FROM, INTO or UPDATE.
func queryTable(sql string) string {
	fields := strings.Fields(sql)
	for i := 0; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE":
			name := strings.Trim(fields[i+1], "\"`(,;")
			if name != "" {
				return name
			}
		}
	}
	return "unknown"
}
