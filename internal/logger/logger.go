package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures the global logger from the environment.
// LOG_LEVEL selects the level (default "info"), LOG_FORMAT=json switches to JSON output.
func Init() {
	InitWith(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// InitWith configures the global logger explicitly.
func InitWith(levelName, format string, out io.Writer) {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	Log.SetOutput(out)
}

// Component returns an entry tagged with the emitting subsystem.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
