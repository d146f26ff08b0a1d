package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.SugaredLogger

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func init() {
	// 未调用 Init 之前（例如单元测试）使用空日志
	Log = zap.NewNop().Sugar()
}

func Init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// SetLevel changes the level of the global logger at runtime ("debug", "info", "warn", ...).
func SetLevel(text string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
