package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 10
	maxLogAgeDays = 90
)

/* Public */

// Init configures the global logrus logger. A verbosity of 1 enables debug
// logging, 2 or more enables trace. An empty logFile logs to stdout only.
func Init(verbosity int, logFile string) error {
	logLevel := logrus.InfoLevel
	switch {
	case verbosity == 1:
		logLevel = logrus.DebugLevel
	case verbosity > 1:
		logLevel = logrus.TraceLevel
	}

	var out io.Writer = os.Stdout
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}

		// make sure the log file is writable before handing it to logrus
		if _, err := rotating.Write(nil); err != nil {
			return errors.Wrapf(err, "open log file %q", logFile)
		}

		out = io.MultiWriter(os.Stdout, rotating)
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	logrus.SetOutput(out)
	logrus.SetLevel(logLevel)
	logrus.SetFormatter(&prefixed.TextFormatter{
		ForceColors:     interactive,
		DisableColors:   !interactive,
		ForceFormatting: true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return nil
}

// GetLogger returns an entry tagged with the given component prefix.
func GetLogger(prefix string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"prefix": prefix})
}
