package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EncoderConfig is the production encoder with ISO8601 timestamps and upper-case levels.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	return cfg
}

// ParseLevel maps a LOG_LEVEL value onto a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds the application logger writing JSON to w and, if filePath is set,
// to a rotating log file. The returned closer flushes the file and must be called before exit.
func New(w io.Writer, level zapcore.Level, filePath string) (*zap.Logger, io.Closer) {
	enc := zapcore.NewJSONEncoder(EncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level),
	}

	var closer io.Closer = nopCloser{}
	if filePath != "" {
		rotator := &lumberjack.Logger{
			Filename:  filePath,
			MaxSize:   200,
			LocalTime: true,
			Compress:  true,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotator), level))
		closer = rotator
	}

	stackLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DPanicLevel
	})
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(stackLevel)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
