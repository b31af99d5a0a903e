package dispatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"imgsorter/internal/classify"
	"imgsorter/internal/report"
	"imgsorter/internal/stats"
	"imgsorter/internal/tree"
)

// write materializes the target tree: creates date and device directories,
// then copies or moves every file, reporting one line per file:
//
//	IMG-20190128.jpg ───> 2019.01.28/Canon 100D/IMG-20190128.jpg ... ok
func (d *Dispatcher) write(t *tree.TargetTree) {
	verb := "move"
	if d.Cfg.CopyNotMove {
		verb = "copy"
	}
	d.printf("")
	d.printf("%s", report.BoldWhite(fmt.Sprintf("Starting to %s files...", verb)))

	header := d.Padder.FormatWriteHeader()
	separator := d.Padder.FormatHeaderSeparator(header)
	d.printf("%s", report.BoldWhite(separator))
	d.printf("%s", report.BoldWhite(header))
	d.printf("%s", report.BoldWhite(separator))

	for _, date := range t.SortedDates() {
		bucket := t.Dates[date]
		deviceCount := len(bucket.ByDevice)
		fileCount, sizeSum := bucketTotals(bucket)
		d.Stats.AddFileSize(sizeSum)

		dateDirPath := filepath.Join(d.Cfg.TargetRoot, date)
		d.createTargetDir(dateDirPath, stats.DirDate, false)

		for _, device := range bucket.SortedDevices() {
			devicePath := dateDirPath
			if d.shouldCreateDeviceDir(device, deviceCount, fileCount) {
				devicePath = filepath.Join(dateDirPath, device.String())
				d.createTargetDir(devicePath, stats.DirDevice, true)
			}

			for _, file := range bucket.ByDevice[device] {
				d.writeFile(file, filepath.Join(devicePath, file.Name))
			}
		}
	}
}

// createTargetDir creates one target directory if missing, counting it in
// the directory stats. Device directories get a progress line; date
// directories are created silently since their files follow immediately.
func (d *Dispatcher) createTargetDir(path string, dirType stats.DirType, announce bool) {
	d.Stats.IncDirTotal(dirType)

	if exists, _ := afero.DirExists(d.FS, path); exists {
		if announce {
			d.printf("%s", report.BoldWhite(fmt.Sprintf("[Folder %s already exists]", d.relTarget(path))))
		}
		return
	}

	if err := d.FS.MkdirAll(path, 0o755); err != nil {
		d.Stats.IncErrorDirCreate(dirType)
		d.printf("%s", report.Red(fmt.Sprintf("[Could not create folder %s: %v]", d.relTarget(path), err)))
		return
	}

	d.Stats.IncDirCreated(dirType)
	if announce {
		d.printf("%s", report.BoldWhite(fmt.Sprintf("[Created folder %s]", d.relTarget(path))))
	}
}

// writeFile copies or moves one file into the target, printing its aligned
// report line. A move whose source deletion fails is downgraded to a copy
// in the stats; the target file is kept either way.
func (d *Dispatcher) writeFile(file classify.SourceFile, targetPath string) {
	status := d.transferFile(file, targetPath)

	source := file.DisplaySource(d.Cfg.HasMultipleSources())
	target := d.relTarget(targetPath)
	d.printf("%s%s%s%s%s",
		source,
		d.Padder.FormatWriteFileSeparator(source),
		target,
		d.Padder.FormatWriteStatusSeparator(target),
		status.render())
}

func (d *Dispatcher) transferFile(file classify.SourceFile, targetPath string) fileStatus {
	if exists, _ := afero.Exists(d.FS, targetPath); exists {
		d.Stats.IncSkippedByType(file.Type)
		return fileStatus{"already exists", report.Orange}
	}

	if err := d.copyFile(file.Path, targetPath); err != nil {
		d.Stats.IncErrorFileCreate()
		return fileStatus{fmt.Sprintf("ERROR: %v", err), report.Red}
	}

	if d.Cfg.CopyNotMove {
		d.Stats.IncCopiedByType(file.Type)
		return fileStatus{"ok", report.Green}
	}

	if err := d.FS.Remove(file.Path); err != nil {
		d.Stats.IncErrorFileDelete()
		d.Stats.IncCopiedByType(file.Type)
		return fileStatus{fmt.Sprintf("ok (error removing source: %v)", err), report.Red}
	}

	d.Stats.IncMovedByType(file.Type)
	return fileStatus{"ok (source file removed)", report.Green}
}

// copyFile duplicates src at dst, preserving the source's permission bits.
// The partially written target is removed on a failed copy.
func (d *Dispatcher) copyFile(src, dst string) error {
	in, err := d.FS.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := d.FS.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = d.FS.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = d.FS.Remove(dst)
		return err
	}

	mode := info.Mode().Perm()
	if mode == 0 {
		mode = os.FileMode(0o644)
	}
	return d.FS.Chmod(dst, mode)
}
