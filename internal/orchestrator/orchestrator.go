// Package orchestrator coordinates one imgsorter run: source scanning, the
// confirmation prompt, parsing, tree consolidation, dispatching and the
// final statistics block.
package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"imgsorter/internal/classify"
	"imgsorter/internal/config"
	"imgsorter/internal/dispatch"
	"imgsorter/internal/parse"
	"imgsorter/internal/report"
	"imgsorter/internal/scanner"
	"imgsorter/internal/stats"
)

// ErrNoFilesFound is returned when the resolved source directories contain
// no supported media files at all.
var ErrNoFilesFound = errors.New("no supported files found in source directories")

// ErrCancelled is returned when the user answers the confirmation prompt
// with no.
var ErrCancelled = errors.New("cancelled by user")

// Orchestrator runs the full pipeline against one filesystem. In and Out
// are injectable so tests can script the confirmation prompt and capture
// the report.
type Orchestrator struct {
	FS  afero.Fs
	Cfg *config.Config
	In  io.Reader
	Out io.Writer
}

// New creates an Orchestrator reading the prompt from in and writing the
// report to out.
func New(afs afero.Fs, cfg *config.Config, in io.Reader, out io.Writer) *Orchestrator {
	return &Orchestrator{FS: afs, Cfg: cfg, In: in, Out: out}
}

// Run executes the whole pipeline and returns the run's statistics.
// Fatal conditions, no valid sources and no supported files, abort before
// anything is parsed or written.
func (o *Orchestrator) Run() (*stats.FileStats, error) {
	st := stats.New()
	started := time.Now()

	fetchDirsStart := time.Now()
	if err := o.Cfg.ResolveSources(o.FS); err != nil {
		return st, err
	}
	st.TimeFetchDirs = time.Since(fetchDirsStart)

	fetchFilesStart := time.Now()
	entries, err := o.fetchEntries(st)
	if err != nil {
		return st, err
	}
	st.TimeFetchFiles = time.Since(fetchFilesStart)

	if countSupported(entries, o.Cfg) == 0 {
		return st, ErrNoFilesFound
	}
	st.IncFilesTotal(len(entries))

	o.printBanner(entries)
	if err := o.confirm(); err != nil {
		return st, err
	}

	parseStart := time.Now()
	res := o.parseEntries(entries)
	st.TimeParseFiles = time.Since(parseStart)

	for range res.SkippedFiles {
		st.IncUnknownSkipped()
	}
	if o.Cfg.Verbose && len(res.SkippedFiles) > 0 {
		o.printf("Skipped %d files with unsupported extensions:", len(res.SkippedFiles))
		for _, name := range res.SkippedFiles {
			o.printf("  %s", name)
		}
	}

	res.Tree.IsolateSparseBuckets(o.Cfg.MinFilesPerDir, o.Cfg.OverflowDirName)

	padder := report.NewPadder(o.Cfg.HasMultipleSources(), o.Cfg.AlignOutput)
	padder.SetMaxSourceFilename(res.MaxSourceFilename)
	padder.SetMaxSourcePath(res.MaxSourcePath)
	padder.SetMaxTargetPath(res.Tree.MaxTargetPathLen(
		o.Cfg.AlwaysCreateDeviceSubdirs, o.Cfg.OverflowDirName))

	writeStart := time.Now()
	dispatch.New(o.FS, o.Cfg, st, padder, o.Out).Run(res.Tree)
	st.TimeWriteFiles = time.Since(writeStart)

	o.printUnknownExtensions(res.Tree.UnknownExtensions)
	o.printNonCustomDevices(res.NonCustomDevices)

	st.TimeTotal = time.Since(started)
	o.printf("%s", st.Render(o.Cfg.DryRun, o.Cfg.CopyNotMove))
	return st, nil
}

// fetchEntries scans every resolved source directory and flattens the
// results. When recursion is disabled, subdirectories found inside a source
// are counted as ignored.
func (o *Orchestrator) fetchEntries(st *stats.FileStats) ([]scanner.Entry, error) {
	var entries []scanner.Entry
	for _, group := range o.Cfg.SourceGroups {
		for _, dir := range group {
			res, err := scanner.Scan(o.FS, dir)
			if err != nil {
				log.Warn().Err(err).Str("path", dir).Msg("could not scan source directory")
				continue
			}
			if !o.Cfg.SourceRecursive {
				for i := 0; i < res.SubdirsSeen; i++ {
					st.IncDirsIgnored()
				}
			}
			entries = append(entries, res.Files...)
		}
	}
	return entries, nil
}

// countSupported counts the entries whose extension maps to a media type.
// A run with nothing to sort aborts before any tree is built.
func countSupported(entries []scanner.Entry, cfg *config.Config) int {
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(e.Extension())
		if classify.TypeForExtension(ext, cfg) != classify.TypeUnknown {
			n++
		}
	}
	return n
}

// parseEntries runs the parse pass, fanned out over workers when more than
// one thread is configured.
func (o *Orchestrator) parseEntries(entries []scanner.Entry) parse.ChunkResult {
	if o.Cfg.MaxThreads > 1 {
		return parse.SourcesParallel(o.FS, entries, o.Cfg)
	}
	return parse.Sources(o.FS, entries, o.Cfg, o.Out)
}

// printBanner summarizes what the run is about to do before the
// confirmation prompt.
func (o *Orchestrator) printBanner(entries []scanner.Entry) {
	var totalSize uint64
	for _, e := range entries {
		if e.Size > 0 {
			totalSize += uint64(e.Size)
		}
	}
	dirCount := 0
	for _, group := range o.Cfg.SourceGroups {
		dirCount += len(group)
	}

	o.printf("")
	o.printf("%s", report.BoldWhite(fmt.Sprintf(
		"Found %d %s (%s) in %d source %s.",
		len(entries), plural(len(entries), "file"),
		humanize.Bytes(totalSize),
		dirCount, plural(dirCount, "directory", "directories"))))
	for _, group := range o.Cfg.SourceGroups {
		for _, dir := range group {
			o.printf("  %s", dir)
		}
	}
	if o.Cfg.SourceFromCLI() {
		o.printf("  (source taken from the command line)")
	}

	verb := "MOVED"
	if o.Cfg.CopyNotMove {
		verb = "COPIED"
	}
	o.printf("Files will be %s to %s", report.BoldWhite(verb), o.Cfg.TargetRoot)
	if o.Cfg.DryRun {
		o.printf("%s", report.Magenta("This is a simulation. No files will be copied, moved or deleted."))
	}
}

// printUnknownExtensions lists the extensions that matched no category, as
// candidates for the custom extension configuration.
func (o *Orchestrator) printUnknownExtensions(exts map[string]struct{}) {
	if len(exts) == 0 {
		return
	}
	names := make([]string, 0, len(exts))
	for ext := range exts {
		if ext == "" {
			ext = "(none)"
		}
		names = append(names, ext)
	}
	sort.Strings(names)

	o.printf("")
	o.printf("%s Unsupported extensions found: %s", report.WarnArrow(), strings.Join(names, ", "))
}

// printNonCustomDevices lists the device names seen without a rename table
// entry, so the user can add the ones they care about.
func (o *Orchestrator) printNonCustomDevices(devices map[string]struct{}) {
	if len(devices) == 0 {
		return
	}
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	o.printf("")
	o.printf("%s Devices without a custom name: %s", report.WarnArrow(), strings.Join(names, ", "))
}

func (o *Orchestrator) printf(format string, args ...interface{}) {
	fmt.Fprintf(o.Out, format+"\n", args...)
}

func plural(n int, word string, irregular ...string) string {
	if n == 1 {
		return word
	}
	if len(irregular) > 0 {
		return irregular[0]
	}
	return word + "s"
}
