package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/d60-Lab/shelf/config"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init 根据配置构建全局 logger
func Init(cfg config.LogConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return err
		}
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global logger; tests use it with zaptest/observer loggers.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// L returns the global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes buffered entries.
func Sync() error { return L().Sync() }
