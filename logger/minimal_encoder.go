package logger

import (
	"go.uber.org/zap/zapcore"
)

// newMinimalEncoder returns a console encoder with calm, minimal formatting:
// short timestamps, colored levels, no caller noise. Structured fields are
// rendered inline after the message.
func newMinimalEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		NameKey:        "logger",
		CallerKey:      "", // Suppress caller for calm output
		StacktraceKey:  "", // Stack traces only via error fields
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	return zapcore.NewConsoleEncoder(cfg)
}
