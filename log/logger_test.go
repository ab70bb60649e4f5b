package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := map[string]Level{
		"debug":   Debug,
		"INFO":    Info,
		"notice":  Notice,
		"warn":    Warning,
		"warning": Warning,
		"error":   Error,
	}

	for name, exp := range specs {
		level, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("[%s] unexpected error: %v", name, err)
		}
		if level != exp {
			t.Fatalf("[%s] expected level %d; got %d", name, exp, level)
		}
	}

	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Notice("filtered")
	logger.Warningf("kept %d", 1)

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Fatalf("expected notice message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "[test] [WARNING]") || !strings.Contains(out, "kept 1") {
		t.Fatalf("expected warning message in output; got %q", out)
	}
}
