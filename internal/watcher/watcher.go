// Package watcher monitors source directories and re-triggers a sorting run
// once new file activity has settled.
package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// RunFunc is invoked after a settled burst of file activity.
type RunFunc func()

// Watcher observes source directories for created or modified files and
// schedules one run per burst. Camera imports and downloads produce many
// events in quick succession; the settle delay collapses them into a single
// run that sees all of the new files.
type Watcher struct {
	settle    time.Duration
	runFunc   RunFunc
	filter    *FileFilter
	fsWatcher *fsnotify.Watcher
	trigger   *runTrigger
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher that calls runFunc after activity has been quiet
// for the settle duration. A zero settle falls back to two seconds.
func New(settle time.Duration, runFunc RunFunc) *Watcher {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Watcher{
		settle:  settle,
		runFunc: runFunc,
		filter:  NewFileFilter(nil),
		done:    make(chan struct{}),
	}
}

// Start begins watching the given directories. The watcher runs until Stop
// is called.
func (w *Watcher) Start(dirs []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return err
		}
	}

	w.fsWatcher = fsw
	w.trigger = newRunTrigger(w.settle, w.runFunc)

	w.wg.Add(1)
	go w.processEvents()

	log.Info().Strs("dirs", dirs).Dur("settle", w.settle).
		Msg("watching source directories")
	return nil
}

// Stop shuts the watcher down and cancels any pending run.
func (w *Watcher) Stop() {
	close(w.done)
	w.wg.Wait()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	if w.trigger != nil {
		w.trigger.cancel()
	}
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.filter.ShouldIgnore(event.Name) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).
				Msg("source activity detected")
			w.trigger.bump()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
