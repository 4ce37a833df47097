package log

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pribylovaa/bookly/internal/config"
)

// Константы для определения окружения.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Setup собирает корневой логгер процесса: local — текст/debug,
// dev — JSON/debug, prod — JSON/info. Запись идёт в stdout и,
// если задан lc.File, дополнительно в файл с ротацией.
func Setup(env string, lc config.LogConfig) *slog.Logger {
	return New(env, Output(lc))
}

// New создаёт логгер для окружения env поверх w.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Output возвращает writer логов: stdout или stdout + lumberjack.
func Output(lc config.LogConfig) io.Writer {
	if lc.File == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   lc.Compress,
	})
}
