package Logger

import (
	"path/filepath"
	"testing"
)

func TestBuildLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := BuildLogger(debug)
		if err != nil {
			t.Fatalf("BuildLogger(%v): %v", debug, err)
		}
		if l.Named("call") == nil {
			t.Errorf("Named returned nil")
		}
	}
}

func TestFromConfigReportsBadOutput(t *testing.T) {
	cfg := Config(false)
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "missing", "dir", "app.log")}

	l, err := FromConfig(cfg)
	if err == nil {
		t.Fatal("expected error for unwritable output path")
	}
	if l != nil {
		t.Errorf("logger should be nil on error")
	}
}
