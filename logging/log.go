// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel Level = 2
	// PanicLevel logs a message, then panics.
	PanicLevel Level = 4
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel Level = 5
)

// ParseLevel parse a log level from a string.
func ParseLevel(l string) (Level, error) {
	l = strings.ToLower(l)
	switch l {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return Level(100), fmt.Errorf("log level \"%s\" is not supported", l)
	}
}

// String return the current level as a string.
func (l Level) String() string {
	return l.ZapLevel().String()
}

func (l Level) ZapLevel() zapcore.Level {
	return zapcore.Level(l)
}

// Logger wraps a zap logger. Each named logger owns its level so engines can
// be tuned independently through their own configuration.
type Logger struct {
	*zap.Logger
	level   zap.AtomicLevel
	encoder zapcore.Encoder
	sink    zapcore.WriteSyncer
	name    string
}

func newLogger(encoder zapcore.Encoder, sink zapcore.WriteSyncer, level Level, name string, opts ...zap.Option) *Logger {
	atom := zap.NewAtomicLevelAt(level.ZapLevel())
	core := zapcore.NewCore(encoder, sink, atom)
	l := zap.New(core, opts...)
	if name != "" {
		l = l.Named(name)
	}
	return &Logger{
		Logger:  l,
		level:   atom,
		encoder: encoder,
		sink:    sink,
		name:    name,
	}
}

// Clone returns a logger sharing the same output but with its own level.
func (log *Logger) Clone() *Logger {
	return newLogger(log.encoder.Clone(), log.sink, log.GetLevel(), log.name, zap.AddCaller())
}

func (log *Logger) GetLevel() Level {
	return Level(log.level.Level())
}

func (log *Logger) GetLevelString() string {
	return log.level.String()
}

func (log *Logger) GetName() string {
	return log.name
}

// Named returns a child logger, names are joined with dots.
func (log *Logger) Named(name string) *Logger {
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return newLogger(log.encoder.Clone(), log.sink, log.GetLevel(), newName, zap.AddCaller())
}

func (log *Logger) SetLevel(level Level) {
	if log.GetLevel() == level {
		return
	}
	log.level.SetLevel(level.ZapLevel())
}

// IsDebug returns true if the debug level is enabled.
func (log *Logger) IsDebug() bool {
	return log.level.Enabled(zapcore.DebugLevel)
}

func (log *Logger) With(fields ...zap.Field) *Logger {
	c := log.Clone()
	c.Logger = c.Logger.With(fields...)
	return c
}

// AtExit flushes the logs before exiting the process. Useful when an
// app shuts down so we store all logging possible. This is meant to be used
// with defer when initializing your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

func devEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		CallerKey:      "C",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		LevelKey:       "L",
		LineEnding:     "\n",
		MessageKey:     "M",
		NameKey:        "N",
		TimeKey:        "T",
	}
}

func prodEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		LevelKey:       "level",
		LineEnding:     "\n",
		MessageKey:     "message",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		TimeKey:        "@timestamp",
	}
}

// NewLoggerFromConfig creates a logger writing to stdout, console encoded
// in the dev environment and json encoded otherwise.
func NewLoggerFromConfig(cfg Config) *Logger {
	switch cfg.Environment {
	case "dev":
		return newLogger(zapcore.NewConsoleEncoder(devEncoderConfig()), zapcore.Lock(os.Stdout), cfg.Level, "", zap.AddCaller())
	default:
		return newLogger(zapcore.NewJSONEncoder(prodEncoderConfig()), zapcore.Lock(os.Stdout), cfg.Level, "", zap.AddCaller())
	}
}

// NewLoggerFromEnv creates a logger using the default configuration
// for the given environment.
func NewLoggerFromEnv(env string) *Logger {
	cfg := NewDefaultConfig()
	cfg.Environment = env
	if env != "dev" {
		cfg.Level = InfoLevel
	}
	return NewLoggerFromConfig(cfg)
}

// NewTestLogger returns a debug logger discarding everything it is given.
func NewTestLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, DebugLevel)
}

// NewLoggerWithWriter returns a json logger writing to w.
func NewLoggerWithWriter(w io.Writer, level Level) *Logger {
	return newLogger(zapcore.NewJSONEncoder(prodEncoderConfig()), zapcore.AddSync(w), level, "")
}
