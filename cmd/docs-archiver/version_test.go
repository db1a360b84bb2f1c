package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Run("returns ldflags version when set", func(t *testing.T) {
		orig := version
		t.Cleanup(func() { version = orig })

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected 'v1.2.3', got %q", got)
		}
	})

	t.Run("returns non-empty fallback", func(t *testing.T) {
		orig := version
		t.Cleanup(func() { version = orig })

		version = ""
		if got := getVersion(); got == "" {
			t.Error("expected non-empty version")
		}
	})
}

func TestGetCommit(t *testing.T) {
	t.Run("returns ldflags commit when set", func(t *testing.T) {
		orig := commit
		t.Cleanup(func() { commit = orig })

		commit = "abc1234"
		if got := getCommit(); got != "abc1234" {
			t.Errorf("expected 'abc1234', got %q", got)
		}
	})
}

func TestGetDate(t *testing.T) {
	t.Run("returns ldflags date when set", func(t *testing.T) {
		orig := date
		t.Cleanup(func() { date = orig })

		date = "2025-01-01"
		if got := getDate(); got != "2025-01-01" {
			t.Errorf("expected '2025-01-01', got %q", got)
		}
	})
}

func TestNewVersionCmd(t *testing.T) {
	t.Run("prints version information", func(t *testing.T) {
		cmd := NewVersionCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "docs-archiver version") {
			t.Errorf("expected version line, got %q", out)
		}
		if !strings.Contains(out, "commit:") {
			t.Errorf("expected commit line, got %q", out)
		}
		if !strings.Contains(out, "built:") {
			t.Errorf("expected build date line, got %q", out)
		}
	})
}
