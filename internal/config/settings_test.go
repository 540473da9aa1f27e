package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	if s.DefaultSlot != 1 {
		t.Errorf("DefaultSlot = %d, want 1", s.DefaultSlot)
	}
	if s.PollIntervalMS != 10 {
		t.Errorf("PollIntervalMS = %d, want 10", s.PollIntervalMS)
	}
	if s.PollAttempts != 100 {
		t.Errorf("PollAttempts = %d, want 100", s.PollAttempts)
	}
	if s.WaitIntervalMS != 100 {
		t.Errorf("WaitIntervalMS = %d, want 100", s.WaitIntervalMS)
	}
	if s.Listen != "" {
		t.Errorf("Listen = %q, want empty", s.Listen)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *s != *Defaults() {
		t.Errorf("Load() = %+v, want defaults %+v", s, Defaults())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "default_slot: 3\npoll_attempts: 50\nlisten: 127.0.0.1:8799\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.DefaultSlot != 3 {
		t.Errorf("DefaultSlot = %d, want 3", s.DefaultSlot)
	}
	if s.PollAttempts != 50 {
		t.Errorf("PollAttempts = %d, want 50", s.PollAttempts)
	}
	if s.Listen != "127.0.0.1:8799" {
		t.Errorf("Listen = %q, want 127.0.0.1:8799", s.Listen)
	}
	// Unset fields keep their defaults.
	if s.PollIntervalMS != 10 {
		t.Errorf("PollIntervalMS = %d, want default 10", s.PollIntervalMS)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_slot: [not a number"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed YAML should fail")
	}
}

func TestLoad_NormalizesUnusableValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "default_slot: 0\npoll_interval_ms: -5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.DefaultSlot != 1 {
		t.Errorf("DefaultSlot = %d, want normalized 1", s.DefaultSlot)
	}
	if s.PollIntervalMS != 10 {
		t.Errorf("PollIntervalMS = %d, want normalized 10", s.PollIntervalMS)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &Settings{DefaultSlot: 2, PollIntervalMS: 20, PollAttempts: 10, WaitIntervalMS: 250}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Errorf("reloaded settings = %+v, want %+v", got, want)
	}
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir == "" {
		t.Fatal("GetConfigDir() returned empty string")
	}
	if !strings.Contains(dir, "padlock") {
		t.Errorf("GetConfigDir() = %q, should contain 'padlock'", dir)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultPath() = %q, should end with config.yaml", path)
	}
}
