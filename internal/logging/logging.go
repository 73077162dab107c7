package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production output is JSON so it can be
// shipped as-is; everywhere else a human readable text format is used.
func New(level string, production bool) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, production)
}

func NewWithOutput(out io.Writer, level string, production bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if production {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		log.WithField("level", level).Warn("unknown log level, falling back to info")
	}
	log.SetLevel(lvl)

	return log
}
