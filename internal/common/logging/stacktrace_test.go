package logging

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStack(t *testing.T) {
	assert.Nil(t, ExtractStack(nil))
	assert.Nil(t, ExtractStack(fmt.Errorf("plain")))
	assert.NotNil(t, ExtractStack(errors.New("with stack")))
	assert.NotNil(t, ExtractStack(fmt.Errorf("wrapped: %w", errors.WithStack(fmt.Errorf("inner")))))
}

func TestWithStacktrace(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := logrus.NewEntry(logger)

	WithStacktrace(entry, errors.New("boom")).Error("failed")
	require.Len(t, hook.Entries, 1)
	assert.Contains(t, hook.LastEntry().Data, Stacktrace)
	assert.Contains(t, hook.LastEntry().Data, logrus.ErrorKey)

	hook.Reset()
	WithStacktrace(entry, fmt.Errorf("no stack")).Error("failed")
	require.Len(t, hook.Entries, 1)
	assert.NotContains(t, hook.LastEntry().Data, Stacktrace)
}
