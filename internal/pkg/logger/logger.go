package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type ctxKey struct{}

var (
	mx   sync.RWMutex
	base = zap.NewNop().Sugar()
)

// Init replaces the global logger. mode is "prod" or anything else for the
// development config.
func Init(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mx.Lock()
	base = l.Sugar()
	mx.Unlock()
	return nil
}

func Sync() {
	_ = get(context.Background()).Sync()
}

// WithFields returns a context whose log lines carry keysAndValues.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	return context.WithValue(ctx, ctxKey{}, get(ctx).With(keysAndValues...))
}

func get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	mx.RLock()
	defer mx.RUnlock()
	return base
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Debugf(format, args...)
}

func Info(ctx context.Context, msg string) {
	get(ctx).Info(msg)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Infof(format, args...)
}

func Warn(ctx context.Context, msg string) {
	get(ctx).Warn(msg)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Warnf(format, args...)
}

func Error(ctx context.Context, msg string) {
	get(ctx).Error(msg)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, err error) {
	get(ctx).Fatal(err)
}
