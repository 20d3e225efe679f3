package buildinfo

import (
	"runtime/debug"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func withLdflags(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestCurrentFromBuildInfo(t *testing.T) {
	withLdflags(t, "", "", "")
	withBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Path: "github.com/aidanlsb/altscan", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	info := Current()
	if info.Version != "v0.3.1" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc123" || info.CommitTime != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected vcs info %#v", info)
	}
	if !info.Modified {
		t.Error("expected modified")
	}
	if info.GoVersion != "go1.24.0" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestCurrentFallsBackToLdflags(t *testing.T) {
	withLdflags(t, "1.2.0", "deadbeef", "2026-02-03")
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)

	info := Current()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "deadbeef" || info.CommitTime != "2026-02-03" {
		t.Errorf("unexpected fallback %#v", info)
	}
	if info.ModulePath != defaultModulePath {
		t.Errorf("ModulePath = %q", info.ModulePath)
	}
}

func TestCurrentWithoutBuildInfo(t *testing.T) {
	withLdflags(t, "", "", "")
	withBuildInfo(t, nil, false)

	if got := Current().Version; got != "devel" {
		t.Errorf("Version = %q, want devel", got)
	}
}
