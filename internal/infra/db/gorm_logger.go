package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormのログをアプリのslogへ流す（request_id付き）
type slogGormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	log           func(ctx context.Context) *slog.Logger
}

// DI
func NewGormLogger(level gormlogger.LogLevel, slowThreshold time.Duration) gormlogger.Interface {
	return &slogGormLogger{level: level, slowThreshold: slowThreshold, log: logger.WithContext}
}

func (l *slogGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log(ctx).InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log(ctx).WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log(ctx).ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// 失敗したSQLと遅いSQLだけ出す。record not foundは出さない
func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log(ctx).ErrorContext(ctx, "db query failed",
			"sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "error", err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log(ctx).WarnContext(ctx, "slow db query",
			"sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "threshold_ms", l.slowThreshold.Milliseconds())
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log(ctx).DebugContext(ctx, "db query", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}
