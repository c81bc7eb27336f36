package logger

import (
	"os"
	"path/filepath"

	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func ensureLogDir(dir string) string {
	if dir == "" {
		dir = manifest.DefaultLogDir
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog builds a JSON logger writing to a rotating file <dir>/<n> and stdout.
func NewLog(cfg manifest.Log, n string) *zap.Logger {
	return newLog(cfg, n, zap.NewProductionEncoderConfig())
}

func newLog(cfg manifest.Log, n string, enc zapcore.EncoderConfig) *zap.Logger {
	dir := ensureLogDir(cfg.Dir)
	level := parseLevel(cfg.Level)

	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, n),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, level),
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), console, level),
	)
	return zap.New(core)
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
