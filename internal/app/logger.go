package app

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/heartmarshall/notify-backend/internal/config"
)

// secretKeys are attribute keys whose values never reach the log.
var secretKeys = map[string]bool{
	"authorization":     true,
	"auth":              true,
	"p256dh":            true,
	"vapid_private_key": true,
	"internal_api_key":  true,
	"jwt_secret":        true,
}

// NewLogger builds the process logger from cfg, writing to stderr, and
// installs it as the slog default.
//
// Format "json" is for production; "text" adds source locations for local
// runs. Level is debug, info, warn or error and defaults to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   strings.EqualFold(cfg.Format, "text"),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// redact hides secrets and cuts push endpoints down to scheme and host:
// the path of an endpoint is a bearer capability for that device.
func redact(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	switch {
	case secretKeys[key]:
		return slog.String(a.Key, "[redacted]")
	case key == "endpoint" && a.Value.Kind() == slog.KindString:
		return slog.String(a.Key, endpointOrigin(a.Value.String()))
	}
	return a
}

func endpointOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[redacted]"
	}
	return u.Scheme + "://" + u.Host + "/..."
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
