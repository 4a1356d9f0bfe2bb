// Package filesize reports the size and modification time of individual files.
package filesize

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/utils/pathutils"
)

// Result is one stat of a monitored file. It is recomputed on every poll and
// never persisted.
type Result struct {
	Path         string
	Bytes        int64
	LastModified time.Time
}

// Megabytes returns the size in decimal megabytes rounded to two places.
// A zero-byte file reports no value at all (ok == false) even though Bytes is
// a valid 0: an empty file has no size worth charting, and consumers of the
// sensor rely on that absent reading.
func (r Result) Megabytes() (float64, bool) {
	if r.Bytes == 0 {
		return 0, false
	}
	return math.Round(float64(r.Bytes)/1e6*100) / 100, true
}

type ProbeError struct {
	Path  string
	Cause error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("can not retrieve file statistics for %s: %v", e.Path, e.Cause)
}

func (e *ProbeError) Unwrap() error { return e.Cause }

// Probe stats path once.
func Probe(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, &ProbeError{Path: path, Cause: err}
	}
	return Result{
		Path:         path,
		Bytes:        info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

// ValidatePath resolves path to an absolute location and checks it names an
// existing regular file. It runs once at setup; later disappearance of the
// file is handled by Probe.
func ValidatePath(path string) (string, error) {
	abs, err := pathutils.ToAbsolutePath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("expected a regular file, got %s: %s", info.Mode().Type(), abs)
	}
	return abs, nil
}
