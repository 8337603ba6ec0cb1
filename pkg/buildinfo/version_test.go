package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit string
		want            string
	}{
		{"v1.2.3", "1a2b3c4d5e6f", "v1.2.3 (1a2b3c4)"},
		{"dev", "none", "dev (none)"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version ") || !strings.Contains(got, Commit) {
		t.Errorf("Template() = %q", got)
	}
}

func TestResolveKeepsStampedValues(t *testing.T) {
	defer func(v string) { Version = v }(Version)
	Version = "v9.9.9"
	Resolve()
	if Version != "v9.9.9" {
		t.Errorf("Resolve() overwrote stamped version: %q", Version)
	}
}
