package main

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func setLogLevelEnv(t *testing.T, value string) {
	t.Helper()
	original, had := os.LookupEnv("LOG_LEVEL")
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("LOG_LEVEL", original)
		} else {
			_ = os.Unsetenv("LOG_LEVEL")
		}
	})
	if value == "" {
		_ = os.Unsetenv("LOG_LEVEL")
	} else {
		_ = os.Setenv("LOG_LEVEL", value)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":         logrus.WarnLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"warning":  logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		" INFO ":   logrus.InfoLevel,
		"verbose":  logrus.WarnLevel,
		"\tDebug ": logrus.DebugLevel,
	}
	for value, want := range cases {
		setLogLevelEnv(t, value)
		assert.Equal(t, want, parseLogLevel(), "LOG_LEVEL=%q", value)
	}
}
