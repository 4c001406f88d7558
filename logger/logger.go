package logger

import (
	"context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	sugar  *zap.SugaredLogger
	mode   = "production"
	output io.Writer = os.Stderr
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	build()
}

func build() {
	level := zapcore.InfoLevel
	if mode == "debug" || os.Getenv("GIGBOT_DEBUG") != "" {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(output),
		level,
	)
	sugar = zap.New(core).Sugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// SetMode switches between "production" and "debug".
func SetMode(m string) {
	mu.Lock()
	defer mu.Unlock()
	mode = m
	build()
}

// SetOutput redirects every log line to w. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
	build()
}

func Sync() {
	_ = current().Sync()
}

func Info(format string, v ...any) {
	current().Infof(format, v...)
}

func Warn(format string, v ...any) {
	current().Warnf(format, v...)
}

func Error(format string, v ...any) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...any) {
	current().Debugf(format, v...)
}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(requestIDKey).(string)
	return s, ok
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs msg with key/value fields plus the request id carried by ctx.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	current().Infow(msg, withRequestID(ctx, fields)...)
}

func WarnCtx(ctx context.Context, msg string, fields ...any) {
	current().Warnw(msg, withRequestID(ctx, fields)...)
}

func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	current().Errorw(msg, withRequestID(ctx, fields)...)
}

func DebugCtx(ctx context.Context, msg string, fields ...any) {
	current().Debugw(msg, withRequestID(ctx, fields)...)
}
