package weaver

import "github.com/sirupsen/logrus"

// WeavingErrorReporter receives one recoverable WeavingError at a time
// during Weave; weaving continues regardless of what it does with it.
type WeavingErrorReporter func(endpoint string, err error)

// LogReporter logs each reported error at Warn level through logger.
func LogReporter(logger *logrus.Logger) WeavingErrorReporter {
	return func(endpoint string, err error) {
		logger.WithField("endpoint", endpoint).Warn(err)
	}
}
