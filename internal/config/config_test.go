package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestValidateRejectsEmptyDirectory(t *testing.T) {
	cfg := Default()
	cfg.DBDirectory = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty DBDirectory")
	}
}

func TestValidateRejectsNonPositiveBlockSize(t *testing.T) {
	cfg := Default()
	cfg.BlockSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive BlockSize")
	}
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarrydb.yaml")
	doc := `
apiVersion: quarrydb/v1
kind: Config
metadata:
  name: dev
spec:
  dbDirectory: ./mydata
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBDirectory != "./mydata" {
		t.Errorf("DBDirectory = %q, want ./mydata", cfg.DBDirectory)
	}
	if cfg.BlockSize != Default().BlockSize {
		t.Errorf("BlockSize = %d, want default %d", cfg.BlockSize, Default().BlockSize)
	}
	if cfg.BufferPoolSize != Default().BufferPoolSize {
		t.Errorf("BufferPoolSize = %d, want default %d", cfg.BufferPoolSize, Default().BufferPoolSize)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarrydb.yaml")
	doc := `
spec:
  dbDirectory: ./mydata
  blockSize: 4096
  bufferPoolSize: 32
  lockWaitTimeout: 5s
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BlockSize != 4096 {
		t.Errorf("BlockSize = %d, want 4096", cfg.BlockSize)
	}
	if cfg.BufferPoolSize != 32 {
		t.Errorf("BufferPoolSize = %d, want 32", cfg.BufferPoolSize)
	}
	if cfg.LockWaitTimeout != 5*time.Second {
		t.Errorf("LockWaitTimeout = %v, want 5s", cfg.LockWaitTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error loading a nonexistent file")
	}
}

func TestLoggingConfigTranslation(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.JSONLogs = true

	lc := cfg.LoggingConfig()
	if string(lc.Level) != "debug" {
		t.Errorf("Level = %q, want debug", lc.Level)
	}
	if !lc.JSONOutput {
		t.Error("expected JSONOutput to be true")
	}
}
