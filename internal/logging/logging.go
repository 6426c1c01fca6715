// Package logging configures the structured logger shared by
// cmd/orgquery and cmd/orgcrawler. It wraps logrus with
// logrus.JSONFormatter on os.Stderr, matching the CLI's three-tier
// verbosity scheme: undecorated is error, -d is info, -dd is debug.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger at the level implied by a counted --debug flag.
// count == 0 -> error, count == 1 -> info, count >= 2 -> debug.
func New(count int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(levelFor(count))
	return log
}

func levelFor(count int) logrus.Level {
	switch {
	case count >= 2:
		return logrus.DebugLevel
	case count == 1:
		return logrus.InfoLevel
	default:
		return logrus.ErrorLevel
	}
}

// WithAccount returns an entry carrying the account id as an
// "account_id" field, for per-account log records.
func WithAccount(log *logrus.Logger, accountID string) *logrus.Entry {
	return log.WithField("account_id", accountID)
}
