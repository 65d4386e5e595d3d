package logging

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const Stacktrace = "stacktrace"

// Unexported but considered part of the stable interface of pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStacktrace returns a new logrus.Entry with the error and, if one was recorded by
// pkg/errors, the innermost stack trace attached as fields.
func WithStacktrace(logger *logrus.Entry, err error) *logrus.Entry {
	logger = logger.WithError(err)
	if stack := ExtractStack(err); stack != nil {
		logger = logger.WithField(Stacktrace, fmt.Sprintf("%+v", stack))
	}
	return logger
}

// ExtractStack walks the error chain and returns the deepest errors.StackTrace, which is
// closest to where the error happened. Returns nil if there is none.
func ExtractStack(err error) errors.StackTrace {
	var found errors.StackTrace
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			found = st.StackTrace()
		}
		err = errors.Unwrap(err)
	}
	return found
}
