package dispatch

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"imgsorter/internal/classify"
	"imgsorter/internal/report"
	"imgsorter/internal/stats"
	"imgsorter/internal/tree"
)

// Per-file simulation statuses. The unstyled text doubles as the state key
// for output compacting.
const (
	statusSourceMissing = "source file does not exist"
	statusDuplicate     = "duplicate source file, will be skipped"
	statusTargetExists  = "target file exists, will be skipped"
	statusWillCopy      = "file will be copied"
	statusReadOnlyCopy  = "source is read only, file will be copied"
	statusWillMove      = "file will be moved"
)

// fileStatus is one predicted outcome with its display styling.
type fileStatus struct {
	text  string
	style func(string) string
}

func (s fileStatus) render() string { return s.style(s.text) }

// simulate prints the predicted directory structure and the fate of every
// file without touching the filesystem. Output is a tree-style listing:
//
//	[2019.01.28] (2 devices, 5 files, 3.3 MB) ............ [new folder will be created]
//	 ├── [Canon 100D] .................................... [new folder will be created]
//	 │    ├── IMG-20190128.jpg <--- IMG-20190128.jpg ..... target file exists, will be skipped
//	 │    ·-- (snipped output for 2 files with same status)
//	 └── IMG-20190127.jpg <-------- IMG-20190127.jpg ..... file will be copied
func (d *Dispatcher) simulate(t *tree.TargetTree) {
	// widen the first column for tree glyphs before any line is formatted
	d.Padder.AddExtraSourceChars(report.TreeIndentMid)
	d.Padder.AddExtraSourceChars(report.TreeEntryEnd)

	header := d.Padder.FormatSimHeader()
	separator := d.Padder.FormatHeaderSeparator(header)
	d.printf("")
	d.printf("%s", report.BoldWhite(separator))
	d.printf("%s", report.BoldWhite(header))
	d.printf("%s", report.BoldWhite(separator))

	// Target paths claimed so far in this run, for duplicate detection.
	// Persists across buckets for the whole simulation.
	claimedTargets := make(map[string]struct{})

	for _, date := range t.SortedDates() {
		bucket := t.Dates[date]
		deviceCount := len(bucket.ByDevice)
		fileCount, sizeSum := bucketTotals(bucket)
		d.Stats.AddFileSize(sizeSum)

		dateDirPath := filepath.Join(d.Cfg.TargetRoot, date)
		headline := fmt.Sprintf("[%s] (%d %s, %d %s, %s)",
			date,
			deviceCount, plural(deviceCount, "device"),
			fileCount, plural(fileCount, "file"),
			humanize.Bytes(sizeSum))

		dirStatus := d.checkTargetDir(dateDirPath, stats.DirDate)
		d.printf("%s", report.BoldWhite(d.Padder.FormatSimDateDir(headline)+dirStatus))

		devices := bucket.SortedDevices()
		for i, device := range devices {
			isLastDir := i == len(devices)-1
			indentLevel := 0

			devicePath := dateDirPath
			if d.shouldCreateDeviceDir(device, deviceCount, fileCount) {
				devicePath = filepath.Join(dateDirPath, device.String())
				indentLevel = 1

				dirLine := d.Padder.FormatSimDeviceDir(device.String(), isLastDir)
				d.printf("%s%s", dirLine, d.checkTargetDir(devicePath, stats.DirDevice))
			}

			d.simulateFiles(bucket.ByDevice[device], devicePath, claimedTargets, indentLevel, isLastDir)
		}

		d.printf("")
	}
}

// simulateFiles prints the predicted status of each file in one device
// bucket, compacting runs of identical statuses when enabled.
func (d *Dispatcher) simulateFiles(files []classify.SourceFile, devicePath string, claimedTargets map[string]struct{}, indentLevel int, isLastDir bool) {
	counter := newCompactCounter(d.Cfg.CompactingThreshold)
	compacting := d.Cfg.CompactingEnabled() && !d.Cfg.Verbose

	for i, file := range files {
		isFirst := i == 0
		isLast := i == len(files)-1
		targetPath := filepath.Join(devicePath, file.Name)

		status := d.checkFileRestrictions(&file, targetPath, claimedTargets)

		printLine := func() {
			indented := report.IndentFileName(indentLevel, file.Name, isLastDir, isLast)
			source := file.DisplaySource(d.Cfg.HasMultipleSources())
			d.printf("%s%s%s%s%s",
				indented,
				d.Padder.FormatSimFileSeparator(indented),
				source,
				d.Padder.FormatSimStatusSeparator(source),
				status.render())
		}
		printSnipped := func() {
			d.printf("%s", d.Padder.FormatSnipped(counter.skippedCount, indentLevel, isLastDir))
		}

		if !compacting {
			printLine()
			continue
		}

		switch {
		case isFirst:
			counter.resetStatus(status.text)
			counter.incCurrent()
			printLine()

		case counter.sameStatus(status.text):
			if !counter.reachedThreshold() {
				counter.incCurrent()
				printLine()
			} else {
				counter.incSkipped()
			}

		default:
			// status changed: flush the suppressed run, then restart
			if counter.hasSkipped() {
				printSnipped()
			}
			counter.resetStatus(status.text)
			counter.incCurrent()
			printLine()
		}

		if isLast && counter.hasSkipped() {
			printSnipped()
		}
	}
}

// checkTargetDir records and reports whether a target directory would be
// created or already exists.
func (d *Dispatcher) checkTargetDir(path string, dirType stats.DirType) string {
	d.Stats.IncDirTotal(dirType)
	if exists, _ := afero.DirExists(d.FS, path); exists {
		return "[target folder exists, will not create]"
	}
	d.Stats.IncDirCreated(dirType)
	return "[new folder will be created]"
}

// checkFileRestrictions classifies one file into exactly one predicted
// outcome. The duplicate check runs before the target-exists check so that
// only the first of several identical targets reports "exists"; the rest
// are flagged as duplicates.
func (d *Dispatcher) checkFileRestrictions(file *classify.SourceFile, targetPath string, claimedTargets map[string]struct{}) fileStatus {
	sourceExists, _ := afero.Exists(d.FS, file.Path)
	if !sourceExists {
		return fileStatus{statusSourceMissing, report.Red}
	}

	if _, seen := claimedTargets[targetPath]; seen {
		d.Stats.IncSkippedByType(file.Type)
		return fileStatus{statusDuplicate, report.Orange}
	}
	claimedTargets[targetPath] = struct{}{}

	if exists, _ := afero.Exists(d.FS, targetPath); exists {
		d.Stats.IncSkippedByType(file.Type)
		return fileStatus{statusTargetExists, report.Orange}
	}

	if d.Cfg.CopyNotMove {
		d.Stats.IncCopiedByType(file.Type)
		return fileStatus{statusWillCopy, report.Green}
	}

	// A read-only source survives the move as a copy; record the delete
	// error the write pass would hit.
	if file.ReadOnly {
		d.Stats.IncErrorFileDelete()
		d.Stats.IncCopiedByType(file.Type)
		return fileStatus{statusReadOnlyCopy, report.Red}
	}

	d.Stats.IncMovedByType(file.Type)
	return fileStatus{statusWillMove, report.Green}
}
