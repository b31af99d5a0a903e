// Package parse turns flat lists of raw source entries into a target tree,
// either on the calling goroutine or fanned out over a worker pool.
package parse

import (
	"io"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"imgsorter/internal/classify"
	"imgsorter/internal/config"
	"imgsorter/internal/exifdata"
	"imgsorter/internal/report"
	"imgsorter/internal/scanner"
	"imgsorter/internal/tree"
)

// ChunkResult is the self-contained outcome of parsing one chunk of
// entries. Workers never share state; the coordinator folds these after
// all workers have finished.
type ChunkResult struct {
	Tree              *tree.TargetTree
	MaxSourceFilename int
	MaxSourcePath     int
	SkippedFiles      []string
	NonCustomDevices  map[string]struct{}
	UnknownCount      int
}

func newChunkResult() ChunkResult {
	return ChunkResult{
		Tree:             tree.New(),
		NonCustomDevices: make(map[string]struct{}),
	}
}

// fold merges another chunk's result into this one.
func (r *ChunkResult) fold(other ChunkResult) {
	r.Tree.Merge(other.Tree)
	if other.MaxSourceFilename > r.MaxSourceFilename {
		r.MaxSourceFilename = other.MaxSourceFilename
	}
	if other.MaxSourcePath > r.MaxSourcePath {
		r.MaxSourcePath = other.MaxSourcePath
	}
	r.SkippedFiles = append(r.SkippedFiles, other.SkippedFiles...)
	for name := range other.NonCustomDevices {
		r.NonCustomDevices[name] = struct{}{}
	}
	r.UnknownCount += other.UnknownCount
}

// Chunk classifies every entry and builds a partial tree. Image files get
// an EXIF metadata read; other types skip it since only images carry the
// tags this tool uses. No filesystem writes happen here.
func Chunk(afs afero.Fs, entries []scanner.Entry, cfg *config.Config) ChunkResult {
	return chunkWithProgress(afs, entries, cfg, nil)
}

func chunkWithProgress(afs afero.Fs, entries []scanner.Entry, cfg *config.Config, tick func()) ChunkResult {
	res := newChunkResult()

	for _, entry := range entries {
		var meta exifdata.DateDevice
		if classify.TypeForExtension(strings.ToLower(entry.Extension()), cfg) == classify.TypeImage {
			meta = exifdata.Read(afs, entry.Path)
		}

		file, nonCustom := classify.Classify(entry, meta, cfg)
		if nonCustom != "" {
			res.NonCustomDevices[nonCustom] = struct{}{}
		}

		switch file.Type {
		case classify.TypeImage, classify.TypeVideo, classify.TypeAudio:
			res.Tree.Insert(file)
			if n := runeLen(file.Name); n > res.MaxSourceFilename {
				res.MaxSourceFilename = n
			}
			if n := runeLen(file.Path); n > res.MaxSourcePath {
				res.MaxSourcePath = n
			}
		default:
			res.UnknownCount++
			res.Tree.RecordUnknownExtension(file.Extension)
			res.SkippedFiles = append(res.SkippedFiles, file.Name)
		}

		if tick != nil {
			tick()
		}
	}

	return res
}

// Sources parses all entries on the calling goroutine, showing a per-file
// progress counter in non-verbose mode.
func Sources(afs afero.Fs, entries []scanner.Entry, cfg *config.Config, out io.Writer) ChunkResult {
	var tick func()
	if !cfg.Verbose {
		bar := report.NewParseProgress(len(entries), out)
		tick = func() { _ = bar.Add(1) }
	}
	return chunkWithProgress(afs, entries, cfg, tick)
}

// SourcesParallel splits the entries into MaxThreads-1 chunks and parses
// each on a pooled worker. Every worker owns its chunk and its private
// ChunkResult; the fold below is the only shared-state mutation and runs
// strictly after the wait, so no locking is needed beyond the WaitGroup.
func SourcesParallel(afs afero.Fs, entries []scanner.Entry, cfg *config.Config) ChunkResult {
	chunkCount := cfg.MaxThreads - 1
	if chunkCount < 1 || len(entries) <= 1 {
		return Chunk(afs, entries, cfg)
	}
	if chunkCount > len(entries) {
		chunkCount = len(entries)
	}

	log.Debug().Int("workers", chunkCount).Int("files", len(entries)).
		Msg("parsing source files in parallel")

	pool, err := ants.NewPool(chunkCount)
	if err != nil {
		log.Warn().Err(err).Msg("could not create worker pool, parsing sequentially")
		return Chunk(afs, entries, cfg)
	}
	defer pool.Release()

	chunks := splitChunks(entries, chunkCount)
	results := make([]ChunkResult, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i, chunk := i, chunk
		wg.Add(1)
		submit := func() {
			defer wg.Done()
			results[i] = Chunk(afs, chunk, cfg)
		}
		if err := pool.Submit(submit); err != nil {
			// pool rejected the task; run it inline rather than lose the chunk
			submit()
		}
	}
	wg.Wait()

	merged := newChunkResult()
	for _, res := range results {
		merged.fold(res)
	}
	return merged
}

// splitChunks divides entries into n contiguous chunks of near-equal size.
func splitChunks(entries []scanner.Entry, n int) [][]scanner.Entry {
	chunks := make([][]scanner.Entry, 0, n)
	size := (len(entries) + n - 1) / n
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
