// Package logger builds the process-wide zerolog logger for the portal.
// Every entry carries the service name and, when set, the deployment env.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "support-portal"

// Rotation limits for Options.File.
const (
	fileMaxSizeMB  = 50
	fileMaxBackups = 5
	fileMaxAgeDays = 28
)

type Options struct {
	Level  string // trace, debug, info, warn, error; anything else means info
	Env    string
	Pretty bool      // console output for local runs
	Output io.Writer // defaults to os.Stdout
	File   string    // optional rotated JSON log next to Output
}

var (
	mu    sync.Mutex
	built *zerolog.Logger
)

// Init builds the logger on first call and returns the same one afterwards.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if built != nil {
		return *built
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(sink(opts)).Level(lvl).With().
		Timestamp().
		Caller().
		Str("service", serviceName)
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}
	l := ctx.Logger()
	built = &l
	return l
}

// Reset drops the built logger so tests can Init again.
func Reset() {
	mu.Lock()
	built = nil
	mu.Unlock()
}

func sink(opts Options) io.Writer {
	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if opts.File == "" {
		return out
	}
	return zerolog.MultiLevelWriter(out, &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
		Compress:   true,
	})
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, s == "", lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
