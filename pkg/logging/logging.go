package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sysstate/snapai/pkg/config"
)

// New builds a logger from the logging configuration. The logger is
// passed explicitly to every component that emits diagnostics.
func New(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Invalid log level '%s', using 'info' instead", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
