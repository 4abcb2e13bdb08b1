// Package log provides the component loggers shared by the roles, the API
// and the commands.
package log

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

type Logger struct {
	*log.Entry
}

var base = newBase()

func newBase() *log.Logger {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	l.SetOutput(os.Stdout)
	l.SetLevel(log.InfoLevel)
	return l
}

// Configure sets level and formatter ("text" or "json") of all loggers.
func Configure(level string, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	switch format {
	case "", "text":
		base.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		base.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// SetOutput redirects console output.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// Base exposes the shared logrus logger, e.g. for hooks.
func Base() *log.Logger {
	return base
}

func NewLogger(module string) *Logger {
	baselogger := base.WithFields(
		log.Fields{
			"name": module,
		})
	return &Logger{baselogger}
}
