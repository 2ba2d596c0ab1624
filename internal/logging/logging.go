// Package logging builds the zerolog logger shared by the server, the MCP
// tool and the services.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

type Builder struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

type Log struct {
	File   *os.File
	Logger zerolog.Logger
}

func New() *Builder {
	return &Builder{level: zerolog.InfoLevel}
}

// FromPath appends to the file at path instead of the buffer.
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) FromBuffer(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) WithLevel(level string) *Builder {
	b.level = ParseLevel(level)
	return b
}

func (b *Builder) Make() (*Log, error) {
	out := &Log{}
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.File = f
		w = zerolog.SyncWriter(f)
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

// Close releases the log file, if any.
func (l *Log) Close() error {
	if l == nil || l.File == nil {
		return nil
	}
	return l.File.Close()
}

// ParseLevel maps a level name onto zerolog. Unknown or empty names mean info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
