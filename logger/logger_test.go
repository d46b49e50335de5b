package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, &buf, "debug", "json")
	l.WithField("file", "a.pdf").Debug("statement extracted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line %q is not json: %v", buf.String(), err)
	}
	if entry["file"] != "a.pdf" || entry["msg"] != "statement extracted" || entry["level"] != "debug" {
		t.Errorf("log entry = %v", entry)
	}
}

func TestConfigure_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, &buf, "chatty", "text")
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", l.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("no warning logged: %q", buf.String())
	}
	buf.Reset()
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %q", buf.String())
	}
}
