package log

import (
	"context"
	"time"

	"github.com/brandworks/asset-qc/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger is a named logger that can be stored on a service and shared by
// concurrent calls. Every method returns a new value.
type StructuredLogger struct {
	name string
	ctx  context.Context
}

// NewDebugLogger returns a logger whose steps are logged at debug level. Errors are
// always logged at error level.
func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name}
}

func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	return &StructuredLogger{name: l.name, ctx: ctx}
}

func (l *StructuredLogger) Operation(op string) *OperationBuilder {
	return &OperationBuilder{name: l.name, ctx: l.ctx, operation: op}
}

// OperationBuilder collects the fields shared by every line an operation logs.
type OperationBuilder struct {
	name      string
	ctx       context.Context
	operation string
	fields    []zap.Field
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *OperationBuilder) WithStringPtr(key string, value *string) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, zap.String(key, *value))
	}
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *OperationBuilder) WithIntPtr(key string, value *int) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, zap.Int(key, *value))
	}
	return b
}

func (b *OperationBuilder) WithUint(key string, value uint) *OperationBuilder {
	b.fields = append(b.fields, zap.Uint(key, value))
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *OperationBuilder) Build() *OperationTracer {
	fields := make([]zap.Field, 0, len(b.fields)+2)
	fields = append(fields, zap.String("operation", b.operation))
	if b.ctx != nil {
		if id := requestid.FromContext(b.ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}
	fields = append(fields, b.fields...)

	return &OperationTracer{
		logger:    zap.L().Named(b.name).With(fields...),
		operation: b.operation,
		start:     time.Now(),
	}
}

// OperationTracer logs the steps of one operation.
type OperationTracer struct {
	logger    *zap.Logger
	operation string
	start     time.Time
}

func (t *OperationTracer) Step(name string) *LogEntry {
	return t.entry(zapcore.DebugLevel, name)
}

// Success marks the end of the operation and records how long it took.
func (t *OperationTracer) Success() *LogEntry {
	e := t.entry(zapcore.DebugLevel, "success")
	e.fields = append(e.fields, zap.Duration("duration", time.Since(t.start)))
	return e
}

func (t *OperationTracer) Error(err error) *LogEntry {
	e := t.entry(zapcore.ErrorLevel, "error")
	e.fields = append(e.fields, zap.Error(err))
	return e
}

func (t *OperationTracer) entry(level zapcore.Level, step string) *LogEntry {
	return &LogEntry{
		logger: t.logger,
		level:  level,
		msg:    t.operation + ": " + step,
		fields: []zap.Field{zap.String("step", step)},
	}
}

// LogEntry is a single line. Nothing is written until Log is called.
type LogEntry struct {
	logger *zap.Logger
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

func (e *LogEntry) WithString(key, value string) *LogEntry {
	e.fields = append(e.fields, zap.String(key, value))
	return e
}

func (e *LogEntry) WithInt(key string, value int) *LogEntry {
	e.fields = append(e.fields, zap.Int(key, value))
	return e
}

func (e *LogEntry) WithUint(key string, value uint) *LogEntry {
	e.fields = append(e.fields, zap.Uint(key, value))
	return e
}

func (e *LogEntry) WithBool(key string, value bool) *LogEntry {
	e.fields = append(e.fields, zap.Bool(key, value))
	return e
}

func (e *LogEntry) Log() {
	if ce := e.logger.Check(e.level, e.msg); ce != nil {
		ce.Write(e.fields...)
	}
}
