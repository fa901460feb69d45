package infra

import (
	"os"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Vovarama1992/deskmate/internal/config"
)

// NewLogger builds the production zap core (JSON to stdout) and, when
// cfg.File is set, tees it into a rotating file.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, *logger.ZapLogger) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return base, logger.NewZapLogger(base.Sugar())
}
