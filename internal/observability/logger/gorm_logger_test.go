package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestDescribeSQL(t *testing.T) {
	tests := []struct {
		sql   string
		op    string
		table string
	}{
		{`SELECT * FROM "customers" WHERE is_deleted = false`, "SELECT", "customers"},
		{`SELECT count(*) FROM products`, "SELECT", "products"},
		{`INSERT INTO "order_items" ("order_id","product_id") VALUES (1,2)`, "INSERT", "order_items"},
		{`UPDATE "public"."orders" SET "status"='pending'`, "UPDATE", "orders"},
		{`DELETE FROM audit_logs WHERE id = 1`, "DELETE", "audit_logs"},
		{`WITH recent AS (SELECT id FROM orders) SELECT * FROM recent`, "SELECT", "orders"},
		{`PRAGMA foreign_keys = ON`, "UNKNOWN", ""},
		{"", "UNKNOWN", ""},
	}
	for _, tt := range tests {
		op, table := describeSQL(tt.sql)
		assert.Equal(t, tt.op, op, tt.sql)
		assert.Equal(t, tt.table, table, tt.sql)
	}
}

func TestGormLoggerConfigFor(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLoggerConfigFor("development").Level)
	assert.Equal(t, gormlogger.Warn, GormLoggerConfigFor("production").Level)
	assert.Equal(t, gormlogger.Error, GormLoggerConfigFor("test").Level)
	assert.True(t, GormLoggerConfigFor("production").IgnoreRecordNotFound)
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        time.Second,
		IgnoreRecordNotFound: true,
	})
	query := func() (string, int64) { return `SELECT * FROM "customers" WHERE id = 7`, 0 }

	l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	l.Trace(context.Background(), time.Now(), query, nil)
	assert.Equal(t, 0, logs.Len())

	l.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "SELECT", fields["operation"])
	assert.Equal(t, "customers", fields["table"])
	assert.Equal(t, "connection reset", fields["error"])

	l.Trace(context.Background(), time.Now().Add(-2*time.Second), query, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestGormLoggerSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfigFor("development")).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	l.Error(context.Background(), "ignored")
	assert.Equal(t, 0, logs.Len())
}

func TestGormLoggerDropsParams(t *testing.T) {
	l := NewGormLogger(nil, GormLoggerConfigFor("production"))
	sql, params := l.ParamsFilter(context.Background(), "SELECT * FROM users WHERE username = ?", "admin")
	assert.Equal(t, "SELECT * FROM users WHERE username = ?", sql)
	assert.Nil(t, params)
}
