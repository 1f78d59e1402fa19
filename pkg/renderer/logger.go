package renderer

import "go.uber.org/zap"

// Logger is the small logging surface carried by the Renderer and used by
// the CLI, generalizing the teacher's bare Printf-only logger with the
// structured key/value calls zap.SugaredLogger offers, for cancellation,
// per-bucket progress and render/save summary messages. The scene loader
// takes no Logger.
type Logger interface {
	Printf(format string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(sugar *zap.SugaredLogger) Logger {
	return &zapLogger{sugar: sugar}
}

func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// NewDefaultLogger builds a console-encoded, info-level production logger
// for CLI use, mirroring the teacher's NewDefaultLogger but backed by zap
// instead of a bare fmt.Printf wrapper.
func NewDefaultLogger() Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return newZapLogger(z.Sugar())
}

// NewNopLogger returns a Logger that discards everything, for tests.
func NewNopLogger() Logger {
	return newZapLogger(zap.NewNop().Sugar())
}
