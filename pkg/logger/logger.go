package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

type Logger struct {
	logger *zap.SugaredLogger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	var l zapcore.Level

	switch strings.ToLower(level) {
	case "error":
		l = zapcore.ErrorLevel
	case "warn":
		l = zapcore.WarnLevel
	case "info":
		l = zapcore.InfoLevel
	case "debug":
		l = zapcore.DebugLevel
	default:
		l = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(l)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger - New - cfg.Build: %s\n", err)
		os.Exit(1)
	}

	return &Logger{logger: base.Sugar()}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg("debug", message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.log(message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logger.Warnf(message, args...)
}

func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg("error", message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg("fatal", message, args...)

	os.Exit(1)
}

func (l *Logger) log(message string, args ...interface{}) {
	if len(args) == 0 {
		l.logger.Info(message)
	} else {
		l.logger.Infof(message, args...)
	}
}

func (l *Logger) msg(level string, message interface{}, args ...interface{}) {
	var text string

	switch m := message.(type) {
	case error:
		text = m.Error()
	case string:
		text = m
	default:
		text = fmt.Sprintf("%v", message)
	}

	switch level {
	case "debug":
		if len(args) == 0 {
			l.logger.Debug(text)
		} else {
			l.logger.Debugf(text, args...)
		}
	case "error":
		if len(args) == 0 {
			l.logger.Error(text)
		} else {
			l.logger.Errorf(text, args...)
		}
	case "fatal":
		if len(args) == 0 {
			l.logger.Error(text)
		} else {
			l.logger.Errorf(text, args...)
		}
	}
}
