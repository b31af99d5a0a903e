// Package stats accumulates per-run counters for imgsorter and renders the
// final statistics block.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"imgsorter/internal/classify"
	"imgsorter/internal/report"
)

// DirType distinguishes date directories from device directories in the
// directory counters.
type DirType int

const (
	// DirDate is a top-level date directory.
	DirDate DirType = iota
	// DirDevice is a device subdirectory inside a date directory.
	DirDevice
)

// FileStats holds all counters for one run. It has exactly one writer at
// any time: the parse pass merges chunk-private counts after the join, and
// the dispatch pass runs on a single goroutine.
type FileStats struct {
	FilesTotal    int
	FileSizeTotal uint64

	ImgMoved   int
	ImgCopied  int
	ImgSkipped int
	VidMoved   int
	VidCopied  int
	VidSkipped int
	AudMoved   int
	AudCopied  int
	AudSkipped int

	UnknownSkipped int
	DirsIgnored    int

	DateDirsTotal     int
	DateDirsCreated   int
	DeviceDirsTotal   int
	DeviceDirsCreated int

	ErrorFileCreate      int
	ErrorFileDelete      int
	ErrorDateDirCreate   int
	ErrorDeviceDirCreate int

	TimeFetchFiles time.Duration
	TimeFetchDirs  time.Duration
	TimeParseFiles time.Duration
	TimeWriteFiles time.Duration
	TimeTotal      time.Duration
}

// New returns a zeroed FileStats.
func New() *FileStats {
	return &FileStats{}
}

// IncFilesTotal adds to the total count of discovered source files.
func (s *FileStats) IncFilesTotal(n int) { s.FilesTotal += n }

// AddFileSize adds to the total size of processed files.
func (s *FileStats) AddFileSize(n uint64) { s.FileSizeTotal += n }

// IncUnknownSkipped counts a file with an unsupported extension.
func (s *FileStats) IncUnknownSkipped() { s.UnknownSkipped++ }

// IncDirsIgnored counts a source subdirectory skipped because recursion is
// disabled.
func (s *FileStats) IncDirsIgnored() { s.DirsIgnored++ }

// IncErrorFileCreate counts a failed copy into the target.
func (s *FileStats) IncErrorFileCreate() { s.ErrorFileCreate++ }

// IncErrorFileDelete counts a failed source deletion after a copy.
func (s *FileStats) IncErrorFileDelete() { s.ErrorFileDelete++ }

// IncDirTotal counts a target directory of the given type, created or not.
func (s *FileStats) IncDirTotal(d DirType) {
	if d == DirDate {
		s.DateDirsTotal++
	} else {
		s.DeviceDirsTotal++
	}
}

// IncDirCreated counts a target directory that was (or would be) created.
func (s *FileStats) IncDirCreated(d DirType) {
	if d == DirDate {
		s.DateDirsCreated++
	} else {
		s.DeviceDirsCreated++
	}
}

// IncErrorDirCreate counts a failed directory creation.
func (s *FileStats) IncErrorDirCreate(d DirType) {
	if d == DirDate {
		s.ErrorDateDirCreate++
	} else {
		s.ErrorDeviceDirCreate++
	}
}

// IncCopiedByType counts a copied file under its media type.
func (s *FileStats) IncCopiedByType(t classify.FileType) {
	switch t {
	case classify.TypeImage:
		s.ImgCopied++
	case classify.TypeVideo:
		s.VidCopied++
	case classify.TypeAudio:
		s.AudCopied++
	}
}

// IncMovedByType counts a moved file under its media type.
func (s *FileStats) IncMovedByType(t classify.FileType) {
	switch t {
	case classify.TypeImage:
		s.ImgMoved++
	case classify.TypeVideo:
		s.VidMoved++
	case classify.TypeAudio:
		s.AudMoved++
	}
}

// IncSkippedByType counts a skipped file under its media type.
func (s *FileStats) IncSkippedByType(t classify.FileType) {
	switch t {
	case classify.TypeImage:
		s.ImgSkipped++
	case classify.TypeVideo:
		s.VidSkipped++
	case classify.TypeAudio:
		s.AudSkipped++
	}
}

// colorIfNonZero styles a counter only when it is non-zero, so all-clear
// runs stay visually quiet.
func colorIfNonZero(n int, style func(string) string) string {
	s := fmt.Sprintf("%d", n)
	if n > 0 {
		return style(s)
	}
	return s
}

// paddedColorIfNonZero left-pads the counter before styling so column
// widths stay consistent regardless of styling escape codes.
func paddedColorIfNonZero(n int, style func(string) string, width int) string {
	s := report.PadLeft(fmt.Sprintf("%d", n), width)
	if n > 0 {
		return style(s)
	}
	return s
}

func neutral(s string) string { return report.BoldWhite(s) }

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%03d", int(d.Seconds()), d.Milliseconds()%1000)
}

// Render returns the final statistics block. Dry runs use prospective
// wording ("to move") and report error counters as n/a since no filesystem
// mutation happened.
func (s *FileStats) Render(dryRun, copyNotMove bool) string {
	// file count padding; dir counts get 1.5x the width
	fWidth := report.Digits(s.FilesTotal)
	dWidth := (fWidth*3 + 1) / 2

	rule := strings.Repeat("─", 46)
	size := report.BoldWhite(humanize.Bytes(s.FileSizeTotal))

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	label := func(dry, write string) string {
		if dryRun {
			return dry
		}
		return write
	}

	line("%s", rule)
	line("Total files:                  %s (%s)", colorIfNonZero(s.FilesTotal, neutral), size)
	line("%s", rule)
	line("%s │%s│%s│%s│", label("Images to move|copy|skip:    ", "Images moved|copied|skipped: "),
		paddedColorIfNonZero(s.ImgMoved, neutral, fWidth),
		paddedColorIfNonZero(s.ImgCopied, neutral, fWidth),
		paddedColorIfNonZero(s.ImgSkipped, report.Orange, fWidth))
	line("%s │%s│%s│%s│", label("Videos to move|copy|skip:    ", "Videos moved|copied|skipped: "),
		paddedColorIfNonZero(s.VidMoved, neutral, fWidth),
		paddedColorIfNonZero(s.VidCopied, neutral, fWidth),
		paddedColorIfNonZero(s.VidSkipped, report.Orange, fWidth))
	line("%s │%s│%s│%s│", label("Audios to move|copy|skip:    ", "Audios moved|copied|skipped: "),
		paddedColorIfNonZero(s.AudMoved, neutral, fWidth),
		paddedColorIfNonZero(s.AudCopied, neutral, fWidth),
		paddedColorIfNonZero(s.AudSkipped, report.Orange, fWidth))
	line("%s", rule)
	line("%s │%s│%s│", label("Date   folders to create|total:", "Date   folders created|total:  "),
		paddedColorIfNonZero(s.DateDirsCreated, neutral, dWidth),
		paddedColorIfNonZero(s.DateDirsTotal, neutral, dWidth))
	line("%s │%s│%s│", label("Device folders to create|total:", "Device folders created|total:  "),
		paddedColorIfNonZero(s.DeviceDirsCreated, neutral, dWidth),
		paddedColorIfNonZero(s.DeviceDirsTotal, neutral, dWidth))
	line("Source folders ignored:       %s", colorIfNonZero(s.DirsIgnored, report.Orange))
	line("Unknown files skipped:        %s", colorIfNonZero(s.UnknownSkipped, report.Orange))
	if dryRun {
		line("File delete errors:           n/a")
		line("File create errors:           n/a")
		line("Date folders create errors:   n/a")
		line("Device folders create errors: n/a")
	} else {
		line("File delete errors:           %s", colorIfNonZero(s.ErrorFileDelete, report.Red))
		line("File create errors:           %s", colorIfNonZero(s.ErrorFileCreate, report.Red))
		line("Date folders create errors:   %s", colorIfNonZero(s.ErrorDateDirCreate, report.Red))
		line("Device folders create errors: %s", colorIfNonZero(s.ErrorDeviceDirCreate, report.Red))
	}
	line("%s", rule)
	line("Time fetching folders:        %s sec", report.BoldWhite(formatDuration(s.TimeFetchDirs)))
	line("Time fetching files:          %s sec", report.BoldWhite(formatDuration(s.TimeFetchFiles)))
	line("Time parsing files:           %s sec", report.BoldWhite(formatDuration(s.TimeParseFiles)))
	line("%s %s sec", label("Time printing files:         ", "Time writing files:          "),
		report.BoldWhite(formatDuration(s.TimeWriteFiles)))
	line("%s", rule)
	line("Total time taken:             %s sec", report.BoldWhite(formatDuration(s.TimeTotal)))
	b.WriteString(rule)

	// Post-run warnings only make sense after a real write pass.
	if !dryRun {
		if s.FilesTotal > 0 && s.FilesTotal == s.UnknownSkipped {
			b.WriteString("\n" + report.Orange("No supported files found in source folder."))
		} else {
			if s.ErrorFileCreate > 0 {
				b.WriteString("\n" + report.WarnArrow() + " Some files could not be created in the target path")
			}
			if !copyNotMove && s.ErrorFileDelete > 0 {
				b.WriteString("\n" + report.WarnArrow() + " Some files were copied but the source files could not be removed")
			}
		}
	}

	return b.String()
}
