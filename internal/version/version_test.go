package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if !strings.Contains(Version, "0") {
		t.Errorf("default Version %q should carry the semver digits", Version)
	}

	// GitCommit, GitMessage and BuildDate are optional and may be empty
	_ = GitCommit
	_ = GitMessage
	_ = BuildDate
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion := Version
	origGitCommit := GitCommit
	origGitMessage := GitMessage
	origBuildDate := BuildDate
	defer func() {
		Version = origVersion
		GitCommit = origGitCommit
		GitMessage = origGitMessage
		BuildDate = origBuildDate
	}()

	// Симулируем -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	GitMessage = "tighten association gap rule"
	BuildDate = "2026-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if GitMessage != "tighten association gap rule" {
		t.Errorf("GitMessage = %q", GitMessage)
	}
	if BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2026-01-15T10:30:00Z")
	}
}
