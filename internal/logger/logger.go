package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the process-wide logger. Development config by default,
// production JSON output when APP_ENV=production.
func Init() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("APP_ENV") == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("initialize logger: " + err.Error())
	}
	log = l
}

func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries. Safe to call via defer.
func Sync() {
	_ = log.Sync()
}

func Debug(msg string, fields ...zapcore.Field) { log.Debug(msg, fields...) }
func Info(msg string, fields ...zapcore.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zapcore.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zapcore.Field) { log.Error(msg, fields...) }
