// Package logging builds zerolog loggers and adapts them to the telemetry,
// notification and activity hooks used across spotadmin.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
)

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger writing to w at the given level. A nil writer logs to
// stderr. The console format is meant for local runs.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		lvl = parsed
	}
	switch strings.ToLower(format) {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Telemetry records events as debug log lines.
type Telemetry struct {
	Logger zerolog.Logger
}

var _ wizard.Telemetry = Telemetry{}

// Record logs the event with its payload as fields.
func (t Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.Logger.Debug().Str("event", event).Fields(payload).Msg("telemetry")
}

// Notifier logs toasts. Errors log at warn level.
type Notifier struct {
	Logger zerolog.Logger
}

var _ wizard.Notifier = Notifier{}

// Notify logs the toast.
func (n Notifier) Notify(_ context.Context, kind wizard.NotificationKind, message string) {
	ev := n.Logger.Info()
	if kind == wizard.NotifyError {
		ev = n.Logger.Warn()
	}
	ev.Str("kind", string(kind)).Msg(message)
}

// ActivityHook logs every activity event at info level.
func ActivityHook(logger zerolog.Logger) activity.Hook {
	return activity.HookFunc(func(_ context.Context, event activity.Event) error {
		logger.Info().
			Str("verb", event.Verb).
			Str("actor_id", event.ActorID).
			Str("object_type", event.ObjectType).
			Str("object_id", event.ObjectID).
			Str("channel", event.Channel).
			Fields(event.Metadata).
			Msg("activity")
		return nil
	})
}
