package main

import (
	"path/filepath"
	"testing"
)

func TestLoadInstallationDirOrFile(t *testing.T) {
	dir := filepath.Join("..", "..", "examples", "casa-tipo")

	fromDir, err := loadInstallation(dir)
	if err != nil {
		t.Fatalf("loading directory: %v", err)
	}
	fromFile, err := loadInstallation(filepath.Join(dir, "instalacion.yaml"))
	if err != nil {
		t.Fatalf("loading file: %v", err)
	}
	if fromDir.Project.Name != fromFile.Project.Name {
		t.Errorf("project names differ: %q vs %q", fromDir.Project.Name, fromFile.Project.Name)
	}

	if _, err := loadInstallation(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{0.5, "0.50"},
		{12.345, "12.35"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.in); got != tt.want {
			t.Errorf("formatQty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Baño planta alta", 8); got != "Baño pl…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Cocina", 8); got != "Cocina" {
		t.Errorf("truncate = %q", got)
	}
}
