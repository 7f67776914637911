// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRoutesToOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: LevelInfo})
	l.Info("frame dropped", "kind", "volume")

	if !strings.Contains(buf.String(), "frame dropped") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kind=volume") {
		t.Errorf("expected attribute in output, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: LevelWarn})
	l.Debug("should not appear")
	l.Info("should not appear either")

	if buf.Len() != 0 {
		t.Errorf("expected no output below configured level, got %q", buf.String())
	}

	l.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("expected warn-level message in output, got %q", buf.String())
	}
}

func TestWithComponentAttachesAttribute(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf, Level: LevelInfo})
	SetDefault(base)

	WithComponent("airlock").Info("booted")
	if !strings.Contains(buf.String(), "component=airlock") {
		t.Errorf("expected component attribute in output, got %q", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: LevelInfo, JSON: true})
	l.Info("locked", "reason", "heartbeat")

	if !strings.Contains(buf.String(), `"msg":"locked"`) {
		t.Errorf("expected JSON-encoded message, got %q", buf.String())
	}
}
