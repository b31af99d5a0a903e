// Package dispatch walks the consolidated target tree and either simulates
// the copy/move outcome of every file or performs it. The two passes are
// mutually exclusive per run and share the directory-materialization rule.
package dispatch

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"imgsorter/internal/classify"
	"imgsorter/internal/config"
	"imgsorter/internal/report"
	"imgsorter/internal/stats"
	"imgsorter/internal/tree"
)

// Dispatcher executes the simulation or write pass over a target tree.
// It is the only filesystem mutator in a run and always executes on a
// single goroutine.
type Dispatcher struct {
	FS     afero.Fs
	Cfg    *config.Config
	Stats  *stats.FileStats
	Padder *report.Padder
	Out    io.Writer
}

// New creates a Dispatcher writing its report to out.
func New(afs afero.Fs, cfg *config.Config, st *stats.FileStats, padder *report.Padder, out io.Writer) *Dispatcher {
	return &Dispatcher{FS: afs, Cfg: cfg, Stats: st, Padder: padder, Out: out}
}

// Run walks the tree in date order and dispatches each bucket to the
// simulation or write pass, as configured.
func (d *Dispatcher) Run(t *tree.TargetTree) {
	if d.Cfg.DryRun {
		d.simulate(t)
	} else {
		d.write(t)
	}
}

// shouldCreateDeviceDir decides whether a device bucket materializes its
// own subdirectory. Device splitting is suppressed for the common
// false-split case of exactly two devices holding exactly two files total:
// typically one EXIF-tagged photo plus the same photo stripped of EXIF by
// a messaging app.
func (d *Dispatcher) shouldCreateDeviceDir(device classify.DeviceKey, deviceCount, fileCount int) bool {
	if d.Cfg.AlwaysCreateDeviceSubdirs {
		return true
	}
	hasDistinctDevice := deviceCount > 1 && !device.Files
	hasDoubleFile := deviceCount == 2 && fileCount == 2
	return hasDistinctDevice && !hasDoubleFile
}

// bucketTotals sums the file count and byte size of one date bucket.
func bucketTotals(bucket *tree.DeviceBucket) (int, uint64) {
	count := 0
	var size uint64
	for _, files := range bucket.ByDevice {
		count += len(files)
		for _, f := range files {
			if f.Size > 0 {
				size += uint64(f.Size)
			}
		}
	}
	return count, size
}

// relTarget returns a target path relative to the target root for display.
func (d *Dispatcher) relTarget(path string) string {
	rel, err := filepath.Rel(d.Cfg.TargetRoot, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *Dispatcher) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, format+"\n", args...)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
