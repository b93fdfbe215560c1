package buildinfo

import "testing"

func TestSummary(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	Version, Commit, Date = "", "", ""
	if got := Summary(); got != "dev" {
		t.Fatalf("unexpected summary: %q", got)
	}

	Version, Commit, Date = "1.2.0", "0123456789abcdef", "2026-10-16"
	if got := Summary(); got != "1.2.0 (commit=0123456, date=2026-10-16)" {
		t.Fatalf("unexpected summary: %q", got)
	}
}
