package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/d60-Lab/techblog/config"
)

var lg = zap.NewNop()

// Init 按配置构建全局 logger。mode=development 使用彩色控制台输出。
func Init(cfg config.LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Mode == "development" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	built, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	lg = built
	return nil
}

// L 返回底层 *zap.Logger（中间件等需要减去 CallerSkip 的场景用 WithOptions 调整）。
func L() *zap.Logger { return lg }

func Debug(msg string, fields ...zap.Field) { lg.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { lg.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { lg.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { lg.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { lg.Fatal(msg, fields...) }

// Sync 刷新缓冲，进程退出前调用。
func Sync() { _ = lg.Sync() }
