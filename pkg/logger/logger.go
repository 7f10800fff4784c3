// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; everything else asks for a Component logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New and Init.
type Options struct {
	// Level accepts any zerolog level name plus "warning". Unknown or
	// empty values mean info.
	Level string
	// Pretty switches to the console writer for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is added to every entry as "service".
	Service string
}

var (
	mu   sync.RWMutex
	root *zerolog.Logger
)

// New builds a logger from opts without touching the shared one.
func New(opts Options) zerolog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(levelFrom(opts.Level)).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// Init installs the shared logger. The first call wins; later calls return
// the logger already installed.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opts)
		zerolog.SetGlobalLevel(l.GetLevel())
		root = &l
	}
	return *root
}

// Get returns the shared logger and panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if root == nil {
		panic("logger: Get called before Init")
	}
	return *root
}

// Component returns the shared logger tagged with component=name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset drops the shared logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root = nil
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func levelFrom(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
