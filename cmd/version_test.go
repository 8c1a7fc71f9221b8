package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintVersionInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := printVersionInfo(&buf); err != nil {
		t.Fatalf("printVersionInfo() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "bhoomi "+AppVersion) {
		t.Errorf("output missing version: %s", out)
	}
	if !strings.Contains(out, "go version: go") {
		t.Errorf("output missing go version: %s", out)
	}
}

func TestTierFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"fracture.S2.md", "S2"},
		{"origins.S3.txt", "S3"},
		{"mesh.md", ""},
		{"notes.S9.md", ""},
		{"plain", ""},
	}
	for _, tt := range tests {
		if got := tierFromFilename(tt.name); got != tt.want {
			t.Errorf("tierFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
