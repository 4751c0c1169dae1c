package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold marks settings-store queries worth a warning.
// The store only ever touches the small settings table, so anything
// slower than this points at a stalled database.
const slowQueryThreshold = 200 * time.Millisecond

// GormAdapter feeds gorm's log stream into the database logger
type GormAdapter struct {
	logger *Logger
	level  gormlogger.LogLevel
}

// NewGormAdapter wraps a logger for use as gorm's logger.Interface
func NewGormAdapter(logger *Logger, level string) *GormAdapter {
	return &GormAdapter{
		logger: logger,
		level:  gormLevel(level),
	}
}

// LogMode returns a copy of the adapter at the given level
func (g *GormAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.Error(fmt.Sprintf(msg, args...), nil)
	}
}

// Trace reports finished queries. Record-not-found is part of the
// settings store's normal read path and is never logged as an error.
func (g *GormAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := map[string]interface{}{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1e3,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		g.logger.WithFields(fields).Error("query failed", err)
	case elapsed > slowQueryThreshold && g.level >= gormlogger.Warn:
		g.logger.WithFields(fields).Warn("slow query")
	case g.level >= gormlogger.Info:
		g.logger.WithFields(fields).Debug("query")
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
