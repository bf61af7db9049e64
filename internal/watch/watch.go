// Package watch re-runs a search whenever a watched file changes, for
// `sgrep watch`. Adapted from the teacher's Engine.StartWatching,
// retargeted from re-linting a changed Go file to re-searching it for
// a fixed pattern.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/ignore"
	"github.com/structgrep/sgrep/internal/lexer"
	"github.com/structgrep/sgrep/internal/result"
	"github.com/structgrep/sgrep/internal/search"
	"github.com/structgrep/sgrep/internal/source"
)

// debounce is how long handleEvent waits after a write event before
// reading the file. Events are not coalesced: every write event still
// triggers its own re-search.
const debounce = 100 * time.Millisecond

// ResultFunc receives the matches (possibly empty) found after a
// watched file changes.
type ResultFunc func(path string, matches []result.Match, code *source.Code)

// Watcher watches a set of directories and re-matches pattern against
// any changed file with a recognized extension.
type Watcher struct {
	pattern    []ast.Node
	extensions map[string]bool
	onResult   ResultFunc
	watcher    *fsnotify.Watcher
	done       chan struct{}
}

// New creates a Watcher for pattern over dirs, invoking onResult after
// every write event on a file whose extension is in extensions (all
// extensions, if empty). Other events (create, rename, remove) are
// ignored.
func New(pattern []ast.Node, dirs []string, extensions map[string]bool, onResult ResultFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		pattern:    pattern,
		extensions: extensions,
		onResult:   onResult,
		watcher:    fsw,
		done:       make(chan struct{}),
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fsw.Add(path)
			}
			return nil
		})
		if err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start begins watching in the background. Call Stop to end it.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop ends watching and releases the underlying OS handles.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if len(w.extensions) > 0 && !w.extensions[filepath.Ext(event.Name)] {
		return
	}

	time.Sleep(debounce)

	code, err := source.Read(event.Name)
	if err != nil {
		log.Printf("watch: error reading %s: %v", event.Name, err)
		return
	}

	doc := lexer.Parse(code.Bytes)
	matches, err := search.Search(context.Background(), w.pattern, doc)
	if err != nil {
		log.Printf("watch: error searching %s: %v", event.Name, err)
		return
	}
	matches = ignore.Filter(matches, ignore.Lines(code.Lines))

	w.onResult(event.Name, matches, code)
}
