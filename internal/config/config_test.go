package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.BodyLimitMB != 32 {
		t.Errorf("Server.BodyLimitMB = %d, want 32", cfg.Server.BodyLimitMB)
	}
	if cfg.Parser.LineTolerance != 2.0 {
		t.Errorf("Parser.LineTolerance = %f, want 2.0", cfg.Parser.LineTolerance)
	}
	if cfg.Parser.GapThreshold != 1.5 {
		t.Errorf("Parser.GapThreshold = %f, want 1.5", cfg.Parser.GapThreshold)
	}
	if cfg.Parser.MinTransactions != 3 {
		t.Errorf("Parser.MinTransactions = %d, want 3", cfg.Parser.MinTransactions)
	}
	if cfg.Parser.HeaderRows != 80 {
		t.Errorf("Parser.HeaderRows = %d, want 80", cfg.Parser.HeaderRows)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9000\nparser:\n  min_transactions: 5\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Parser.MinTransactions != 5 {
		t.Errorf("Parser.MinTransactions = %d, want 5", cfg.Parser.MinTransactions)
	}
	// Untouched keys keep their defaults.
	if cfg.Parser.GapThreshold != 1.5 {
		t.Errorf("Parser.GapThreshold = %f, want default 1.5", cfg.Parser.GapThreshold)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestParserConfig(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pc := cfg.ParserConfig()
	if pc.MinTransactions != cfg.Parser.MinTransactions {
		t.Error("ParserConfig did not carry MinTransactions over")
	}
	if pc.LineTolerance != cfg.Parser.LineTolerance {
		t.Error("ParserConfig did not carry LineTolerance over")
	}
}
