package version

import (
	"context"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
	"testing"
)

// TestHelperProcess isn't a real test. It stands in for git when
// execCommand is mocked.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("MOCK_GIT_COMMIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("abc1234\n")
	case "--tags":
		if os.Getenv("MOCK_GIT_VERSION_FAIL") == "1" {
			os.Exit(1)
		}
		if os.Getenv("MOCK_GIT_VERSION_EMPTY") != "1" {
			os.Stdout.WriteString("v1.2.0\n")
		}
	}
}

func mockExecCommand(env map[string]string) func(context.Context, string, ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		return cmd
	}
}

func stubBuildInfo(version string) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		if version == "" {
			return nil, false
		}
		return &debug.BuildInfo{Main: debug.Module{Version: version}}, true
	}
}

func TestInfo(t *testing.T) {
	origExec, origBuild := execCommand, readBuildInfo
	t.Cleanup(func() {
		execCommand, readBuildInfo = origExec, origBuild
		Reset()
	})

	tests := []struct {
		name       string
		env        map[string]string
		build      string
		wantVer    string
		wantCommit string
	}{
		{
			name:       "git tag",
			build:      "(devel)",
			wantVer:    "1.2.0",
			wantCommit: "abc1234",
		},
		{
			name:       "module version wins",
			build:      "v0.4.1",
			wantVer:    "0.4.1",
			wantCommit: "abc1234",
		},
		{
			name:       "commit fails",
			env:        map[string]string{"MOCK_GIT_COMMIT_FAIL": "1"},
			wantVer:    "1.2.0",
			wantCommit: "unknown",
		},
		{
			name:       "no tag",
			env:        map[string]string{"MOCK_GIT_VERSION_FAIL": "1"},
			wantVer:    "dev",
			wantCommit: "abc1234",
		},
		{
			name:       "empty tag",
			env:        map[string]string{"MOCK_GIT_VERSION_EMPTY": "1"},
			wantVer:    "dev",
			wantCommit: "abc1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			execCommand = mockExecCommand(tt.env)
			readBuildInfo = stubBuildInfo(tt.build)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, "claude-usage-tui "+tt.wantVer) {
				t.Errorf("Info() = %q, want app name and version first", info)
			}
		})
	}
}

func TestLdflagsTakePrecedence(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	Version, Commit, Date = "9.9.9", "deadbee", "2025-01-01"

	if got := Info(); !strings.Contains(got, "9.9.9 (commit: deadbee, built: 2025-01-01") {
		t.Errorf("Info() = %q", got)
	}
}

func TestGetDate(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	if GetDate() == "" {
		t.Error("GetDate() returned empty string")
	}
}
