package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EventLogger receives structured turn events. Log never fails.
type EventLogger interface {
	Log(message string, data map[string]any)
}

type nop struct{}

func (nop) Log(string, map[string]any) {}

// Nop discards every event
var Nop EventLogger = nop{}

// ZapLogger writes events as JSON lines {"timestamp", "level", "message", "data"}
type ZapLogger struct {
	logger  *zap.Logger
	rotator *lumberjack.Logger
}

var _ EventLogger = (*ZapLogger)(nil)

// NewZapLogger returns an event logger appending to a rotating file
func NewZapLogger(path string) *ZapLogger {
	rotator := newRotator(path)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)
	return &ZapLogger{
		logger:  zap.New(core),
		rotator: rotator,
	}
}

// NewZapLoggerWith returns an event logger writing through an existing logger
func NewZapLoggerWith(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

func (l *ZapLogger) Log(message string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	l.logger.Info(message, zap.Any("data", data))
}

func (l *ZapLogger) Close() error {
	_ = l.logger.Sync()
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}
