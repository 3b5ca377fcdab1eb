package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter implements Logger on top of zap.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter wraps an existing *zap.Logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// NewZapLogger builds a JSON zap logger writing to w at the named level
// (debug, info, warn, error; anything else means info).
func NewZapLogger(w io.Writer, component, level string) *ZapAdapter {
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if lvl, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		atom.SetLevel(lvl)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), atom)
	return NewZapAdapter(zap.New(core).With(zap.String("component", component)))
}

// Debug logs at debug level.
func (z *ZapAdapter) Debug(msg string, fields ...Field) { z.logger.Debug(msg, zapFields(fields)...) }

// Info logs at info level.
func (z *ZapAdapter) Info(msg string, fields ...Field) { z.logger.Info(msg, zapFields(fields)...) }

// Warn logs at warn level.
func (z *ZapAdapter) Warn(msg string, fields ...Field) { z.logger.Warn(msg, zapFields(fields)...) }

// Error logs at error level with err under the "error" key.
func (z *ZapAdapter) Error(msg string, err error, fields ...Field) {
	z.logger.Error(msg, append([]zap.Field{zap.Error(err)}, zapFields(fields)...)...)
}

// Printf logs a formatted message at info level.
func (z *ZapAdapter) Printf(format string, args ...any) {
	z.logger.Info(fmt.Sprintf(format, args...))
}

// Println logs its arguments, space separated, at info level.
func (z *ZapAdapter) Println(args ...any) {
	z.logger.Info(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// Sync flushes buffered entries.
func (z *ZapAdapter) Sync() error { return z.logger.Sync() }

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case uint64:
			out = append(out, zap.Uint64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
