package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// NewLogger builds a zerolog logger writing to stderr. Pretty output uses the
// console writer; otherwise JSON lines are emitted.
func NewLogger(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsedLevel = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(parsedLevel).With().Timestamp().Logger()
}

// LoggerOrNop dereferences logger, falling back to a disabled logger when it
// is nil.
func LoggerOrNop(logger *zerolog.Logger) zerolog.Logger {
	if logger == nil {
		return zerolog.Nop()
	}
	return *logger
}
