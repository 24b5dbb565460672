package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStylesCreatesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")

	styles, err := loadStyles(path)
	if err != nil {
		t.Fatalf("load styles: %v", err)
	}
	if styles.AccentColor == "" || styles.TimerColor == "" {
		t.Errorf("defaults incomplete: %+v", styles)
	}

	// The file is written so the user can edit it.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("styles file not created: %v", err)
	}

	// Second load reads the file back.
	again, err := loadStyles(path)
	if err != nil {
		t.Fatalf("reload styles: %v", err)
	}
	if again != styles {
		t.Errorf("reloaded styles differ: %+v vs %+v", again, styles)
	}
}

func TestLoadStylesReadsCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	if err := os.WriteFile(path, []byte(`{"accent_color": "99"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	styles, err := loadStyles(path)
	if err != nil {
		t.Fatalf("load styles: %v", err)
	}
	if styles.AccentColor != "99" {
		t.Errorf("accent = %q, want 99", styles.AccentColor)
	}
}
