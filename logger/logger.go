package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log field names.
const (
	FieldSession   = "session"
	FieldOperation = "operation"
	FieldNoteId    = "noteId"
	FieldDuration  = "duration"
	FieldPending   = "pending"
)

// New builds a stderr logger: console encoded for development, JSON for production.
func New(level string, production bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		encoderConfig zapcore.EncoderConfig
		encoder       zapcore.Encoder
	)
	if production {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)

	return zap.New(core, zap.AddCaller()), nil
}
