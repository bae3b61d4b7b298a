package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures SQL statement logging.
type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

// ParseGormLevel maps a zap level name onto a GORM log level. "debug"
// logs every statement; unknown names fall back to warn.
func ParseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "silent", "off", "none":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// GormLogger writes GORM output through the request-scoped zap logger.
// Bound parameters are never logged since they carry customer data.
type GormLogger struct {
	cfg GormLoggerConfig
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.cfg.Level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.cfg.Level < min {
		return
	}
	if len(data) > 0 {
		msg = fmt.Sprintf(msg, data...)
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(zap.String("component", "gorm"))
	}
}

// Trace logs failed statements at error and slow ones at warn. Every other
// statement is logged at debug when the level is Info. Missing rows are
// not failures: repositories report absence as a nil result.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold

	var level zapcore.Level
	switch {
	case err != nil && l.cfg.Level >= gormlogger.Error:
		level = zapcore.ErrorLevel
	case slow && l.cfg.Level >= gormlogger.Warn:
		level = zapcore.WarnLevel
	case l.cfg.Level >= gormlogger.Info:
		level = zapcore.DebugLevel
	default:
		return
	}

	ce := FromContext(ctx).Check(level, "sql")
	if ce == nil {
		return
	}
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("statement", statementKind(sql)),
		zap.String("sql", strings.TrimSpace(sql)),
		zap.Duration("elapsed", elapsed),
		zap.Bool("slow", slow),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

// ParamsFilter drops bound values from the rendered SQL.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

// statementKind returns the leading DML verb, skipping a WITH prefix.
func statementKind(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		switch token = strings.Trim(token, "();"); token {
		case "SELECT", "INSERT", "UPDATE", "DELETE":
			return token
		}
	}
	return "OTHER"
}

var (
	_ gormlogger.Interface = (*GormLogger)(nil)
	_ gorm.ParamsFilter    = (*GormLogger)(nil)
)
