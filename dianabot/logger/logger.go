package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// Handler is a human-oriented slog handler for the bot console: colored
// levels, a log-type tag, and suppression of the transport's polling noise.
type Handler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(level slog.Level) *Handler {
	return &Handler{
		opts:      &slog.HandlerOptions{Level: level},
		startTime: time.Now(),
		attrs:     make([]slog.Attr, 0),
		groups:    make([]string, 0),
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     append(h.attrs, attrs...),
		groups:    h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(h.groups, name),
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorPurple
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	case slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	}

	message := r.Message
	if r.Level == slog.LevelError {
		if location := errorLocation(&r); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
	}

	var attrsStr string
	appendAttr := func(a slog.Attr) {
		if a.Key != "type" {
			attrsStr += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		}
	}
	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	fmt.Printf("%s[DianaBot] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		logType(&r),
		message,
		attrsStr,
		colorReset,
	)

	return nil
}

// shouldSkipLog drops the Telegram long-polling chatter that would otherwise
// drown the console.
func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"getUpdates",
		"sending request",
		"response received",
		"long polling",
	}

	for _, skip := range skippedMessages {
		if strings.Contains(strings.ToLower(r.Message), strings.ToLower(skip)) {
			return true
		}
	}

	return false
}

func logType(r *slog.Record) LogType {
	var t LogType = TypeSystem
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "type" {
			switch a.Value.String() {
			case "cmd":
				t = TypeCommand
			case "db":
				t = TypeDB
			case "error":
				t = TypeError
			}
			return false
		}
		return true
	})
	return t
}

func errorLocation(r *slog.Record) string {
	var location string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error_location" {
			location = a.Value.String()
			return false
		}
		return true
	})
	if location == "" {
		if _, file, line, ok := runtime.Caller(4); ok {
			location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	return location
}
