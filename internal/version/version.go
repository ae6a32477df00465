// Package version reports build metadata for the binary.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/config"
)

// Set via -ldflags at build time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	// execCommand is swapped out in tests.
	execCommand = exec.CommandContext

	// readBuildInfo is swapped out in tests.
	readBuildInfo = debug.ReadBuildInfo
)

const gitTimeout = 2 * time.Second

func ensureInitialized() {
	once.Do(func() {
		if Date == "" {
			Date = time.Now().Format(time.DateOnly)
		}
		if Commit == "" {
			Commit = gitCommit()
		}
		if Version == "" {
			Version = moduleVersion()
		}
	})
}

// Reset clears memoized values so the next accessor recomputes them.
func Reset() {
	once = sync.Once{}
	Version, Commit, Date = "", "", ""
}

func git(args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", false
	}
	return strings.TrimSpace(out.String()), true
}

func gitCommit() string {
	if commit, ok := git("describe", "--always", "--dirty"); ok && commit != "" {
		return commit
	}
	return "unknown"
}

// moduleVersion prefers the version stamped by `go install`, then the
// nearest git tag, then "dev".
func moduleVersion() string {
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	if tag, ok := git("describe", "--tags", "--abbrev=0"); ok && tag != "" {
		return strings.TrimPrefix(tag, "v")
	}
	return "dev"
}

// GetVersion returns the release version without a leading "v".
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// Info returns the one-line version banner printed by --version.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s/%s)",
		config.AppName, Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
