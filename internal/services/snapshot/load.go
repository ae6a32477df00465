// Package snapshot loads the Claude usage statistics snapshot and keeps it
// current by watching the file and polling it on an interval.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// ErrNoSnapshot is returned when the stats file does not exist yet.
var ErrNoSnapshot = errors.New("stats snapshot not found")

// Load reads and parses the snapshot at path.
func Load(path string) (*models.StatsCache, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a snapshot document. Missing sections decode as empty.
func Parse(data []byte) (*models.StatsCache, error) {
	var cache models.StatsCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse stats snapshot: %w", err)
	}
	return &cache, nil
}

// osReadFile is replaced in tests.
var osReadFile = os.ReadFile

func readFile(path string) ([]byte, error) {
	data, err := osReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats snapshot: %w", err)
	}
	return data, nil
}
