package Logger

import (
	"fmt"

	"go.uber.org/zap"
)

type Logger struct {
	*zap.SugaredLogger
}

func Config(debug bool) zap.Config {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "time"
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"
	return cfg
}

func FromConfig(cfg zap.Config) (*Logger, error) {
	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{logger.Sugar()}, nil
}

func BuildLogger(debug bool) (*Logger, error) {
	return FromConfig(Config(debug))
}

func New(debug bool) (*Logger, error) {
	return BuildLogger(debug)
}

// NewNop discards everything; handy in tests.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Named scopes the logger to a component, e.g. "call" or "vapi".
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}
