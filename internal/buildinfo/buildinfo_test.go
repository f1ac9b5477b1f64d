package buildinfo

import "testing"

func TestShort(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "dev", "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short() = %q, want %q", got, "dev")
	}

	Commit = "0123456789abcdef"
	if got := Short(); got != "0123456" {
		t.Fatalf("Short() = %q, want %q", got, "0123456")
	}

	Version = "v1.2.0"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short() = %q, want %q", got, "v1.2.0")
	}
}
