package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors config.LoggerConfig but avoids importing the config package here.
type Config struct {
	Level    string
	Encoding string
	// Name prefixes every entry's logger name, e.g. the app name.
	Name string
	// Output defaults to stdout. The terminal client logs to stderr so prompts stay readable.
	Output io.Writer
}

// New builds a zap.Logger using the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	core := zapcore.NewCore(encoder(cfg.Encoding), zapcore.Lock(zapcore.AddSync(out)), parseLevel(cfg.Level))
	log := zap.New(core, zap.AddCaller())
	if cfg.Name != "" {
		log = log.Named(cfg.Name)
	}
	return log, nil
}

// parseLevel falls back to info for anything zap does not recognise.
func parseLevel(raw string) zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.Set(raw); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoder(encoding string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

type metaKey struct{}

// requestMeta is what a request context carries for log correlation.
type requestMeta struct {
	requestID string
	username  string
}

func metaFrom(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	m, _ := ctx.Value(metaKey{}).(requestMeta)
	return m
}

// ContextWithRequestID attaches a request ID to the provided context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	m := metaFrom(ctx)
	m.requestID = requestID
	return context.WithValue(ctx, metaKey{}, m)
}

// ContextWithUsername records the authenticated username for later log entries.
func ContextWithUsername(ctx context.Context, username string) context.Context {
	m := metaFrom(ctx)
	m.username = username
	return context.WithValue(ctx, metaKey{}, m)
}

func RequestID(ctx context.Context) string {
	return metaFrom(ctx).requestID
}

func Username(ctx context.Context) string {
	return metaFrom(ctx).username
}

// WithContext enriches base with the request id and username carried by ctx.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return base
	}
	m := metaFrom(ctx)
	fields := make([]zap.Field, 0, 2)
	if m.requestID != "" {
		fields = append(fields, zap.String("request_id", m.requestID))
	}
	if m.username != "" {
		fields = append(fields, zap.String("username", m.username))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
