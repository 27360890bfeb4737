package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactingHandler_MasksURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		notWant string
	}{
		{
			name:    "href query",
			key:     "href",
			value:   "https://t.example/click?uid=42",
			want:    "https://t.example/click?" + MaskValue,
			notWant: "uid=42",
		},
		{
			name:    "src fragment",
			key:     "src",
			value:   "https://t.example/open.gif#r=alice",
			want:    "https://t.example/open.gif#" + MaskValue,
			notWant: "alice",
		},
		{
			name:    "target suffix",
			key:     "click_target",
			value:   "https://safe.example/c?campaign=7",
			want:    "https://safe.example/c?" + MaskValue,
			notWant: "campaign",
		},
		{
			name:  "url without query is kept",
			key:   "url",
			value: "https://safe.example/c",
			want:  "https://safe.example/c",
		},
		{
			name:  "non url key is kept",
			key:   "step",
			value: "link_redirect?x",
			want:  "link_redirect?x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewRedactingLogger(&buf, true)
			logger.Debug("test", tt.key, tt.value)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in %q", tt.want, out)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("did not expect %q in %q", tt.notWant, out)
			}
		})
	}
}

func TestRedactingHandler_MasksSecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"password key", "password", "hunter2"},
		{"token keyword", "github_token", "ghp_abc"},
		{"cookie key uppercase", "Cookie", "id=1"},
		{"bearer value", "header", "Bearer abc.def"},
		{"jwt value", "data", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewRedactingLogger(&buf, true)
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("value leaked: %q", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask in %q", out)
			}
		})
	}
}

func TestRedactingHandler_SessionNameIsNotSecret(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewRedactingLogger(&buf, true).Info("saved", "session", "newsletter-march")

	if !strings.Contains(buf.String(), "newsletter-march") {
		t.Errorf("session name was masked: %q", buf.String())
	}
}

func TestRedactingHandler_LogLevels(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose hides debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewRedactingLogger(&buf, false)
		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
			t.Errorf("unexpected low-level output: %q", out)
		}
		if !strings.Contains(out, "warn message") {
			t.Errorf("expected warn output: %q", out)
		}
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewRedactingLogger(&buf, true).Debug("debug message")

		if !strings.Contains(buf.String(), "debug message") {
			t.Errorf("expected debug output: %q", buf.String())
		}
	})
}

func TestRedactingHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewRedactingHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := slog.New(handler).
		With("href", "https://t.example/a?uid=1").
		WithGroup("link").
		With(slog.Group("inner", "src", "https://t.example/p.gif?r=2"))

	logger.Info("test")

	out := buf.String()
	if strings.Contains(out, "uid=1") || strings.Contains(out, "r=2") {
		t.Errorf("query leaked: %q", out)
	}
}

func TestNewRedactingHandler_NilHandler(t *testing.T) {
	t.Parallel()

	if h := NewRedactingHandler(nil); h.handler == nil {
		t.Error("expected default handler")
	}
}
