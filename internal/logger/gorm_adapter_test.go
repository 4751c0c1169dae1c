package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func adapterWithBuffer(level string) (*GormAdapter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := New(Config{Output: buf, MinLevel: LevelDebug})
	return NewGormAdapter(log, level), buf
}

func TestGormAdapter_TraceError(t *testing.T) {
	adapter, buf := adapterWithBuffer("error")

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM settings", 0
	}, gorm.ErrInvalidDB)

	out := buf.String()
	if !strings.Contains(out, "query failed") {
		t.Errorf("expected a query failure entry, got %q", out)
	}
	if !strings.Contains(out, "SELECT * FROM settings") {
		t.Errorf("expected the SQL in the entry, got %q", out)
	}
}

func TestGormAdapter_TraceRecordNotFoundIgnored(t *testing.T) {
	adapter, buf := adapterWithBuffer("error")

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM settings WHERE key = ?", 0
	}, gorm.ErrRecordNotFound)

	if strings.Contains(buf.String(), "query failed") {
		t.Errorf("record-not-found should not log as an error, got %q", buf.String())
	}
}

func TestGormAdapter_TraceSlowQuery(t *testing.T) {
	adapter, buf := adapterWithBuffer("debug")

	adapter.Trace(context.Background(), time.Now().Add(-slowQueryThreshold-time.Millisecond), func() (string, int64) {
		return "SELECT * FROM settings", 1
	}, nil)

	if !strings.Contains(buf.String(), "slow query") {
		t.Errorf("expected a slow-query entry, got %q", buf.String())
	}
}

func TestGormAdapter_LogMode(t *testing.T) {
	adapter, _ := adapterWithBuffer("warn")

	silenced := adapter.LogMode(gormlogger.Silent)
	if silenced == gormlogger.Interface(adapter) {
		t.Error("expected LogMode to return a copy")
	}
	if adapter.level != gormlogger.Warn {
		t.Errorf("expected original level untouched, got %v", adapter.level)
	}
}
