package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for input, expected := range cases {
		if got := GetLevel(input); got != expected {
			t.Errorf("GetLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}
