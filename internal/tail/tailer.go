package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/metrics"
	"github.com/vietddude/logship/internal/offset"
)

const eventBuffer = 256

// Tailer follows a set of files and globs and turns appended lines
// into domain events. Parent directories are watched with fsnotify so
// newly created files matching a glob are picked up, and truncation
// (logrotate copytruncate) reopens the file at offset zero.
type Tailer struct {
	hostname string
	configs  []config.FileConfig
	store    offset.Store

	watcher *fsnotify.Watcher
	events  chan *domain.Event
	done    chan struct{}

	mu     sync.Mutex
	files  map[string]*tailedFile
	closed bool

	log *slog.Logger
}

type tailedFile struct {
	f       *os.File
	reader  *bufio.Reader
	offset  int64
	partial []byte
	cfg     config.FileConfig
}

// New opens the configured files and starts watching their parent
// directories. Files that exist already are resumed from the stored
// offset, or from the end when no offset is known.
func New(configs []config.FileConfig, hostname string, store offset.Store) (*Tailer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	t := &Tailer{
		hostname: hostname,
		configs:  configs,
		store:    store,
		watcher:  watcher,
		events:   make(chan *domain.Event, eventBuffer),
		done:     make(chan struct{}),
		files:    make(map[string]*tailedFile),
		log:      slog.Default(),
	}

	dirs := make(map[string]struct{})
	for _, fc := range configs {
		switch {
		case fc.Path != "":
			dirs[filepath.Dir(fc.Path)] = struct{}{}
			if err := t.open(fc.Path, fc, false); err != nil {
				t.log.Warn("cannot tail file yet", "path", fc.Path, "error", err)
			}
		case fc.Glob != "":
			dirs[filepath.Dir(fc.Glob)] = struct{}{}
			matches, err := filepath.Glob(fc.Glob)
			if err != nil {
				watcher.Close()
				return nil, fmt.Errorf("invalid glob %q: %w", fc.Glob, err)
			}
			for _, m := range matches {
				if err := t.open(m, fc, false); err != nil {
					t.log.Warn("cannot tail file yet", "path", m, "error", err)
				}
			}
		}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			t.log.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	go t.run()
	return t, nil
}

// Events returns the stream of tailed lines. The channel is closed
// when the tailer shuts down.
func (t *Tailer) Events() <-chan *domain.Event {
	return t.events
}

// Close stops watching and closes all tailed files. Idempotent.
func (t *Tailer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	for p, tf := range t.files {
		tf.f.Close()
		delete(t.files, p)
		metrics.FilesWatched.Dec()
	}
	t.mu.Unlock()

	close(t.done)
	return t.watcher.Close()
}

func (t *Tailer) run() {
	defer close(t.events)

	// Drain lines already on disk past the resume offsets.
	t.mu.Lock()
	snapshot := make(map[string]*tailedFile, len(t.files))
	for p, tf := range t.files {
		snapshot[p] = tf
	}
	t.mu.Unlock()
	for p, tf := range snapshot {
		t.read(p, tf)
	}

	for {
		select {
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handle(ev)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Warn("fs watcher error", "error", err)
		case <-t.done:
			return
		}
	}
}

func (t *Tailer) handle(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Write):
		t.mu.Lock()
		tf, ok := t.files[ev.Name]
		t.mu.Unlock()
		if !ok {
			return
		}
		t.read(ev.Name, tf)

	case ev.Op.Has(fsnotify.Create):
		fc, ok := t.match(ev.Name)
		if !ok {
			return
		}
		// Fresh file: ship its contents from the beginning.
		if err := t.open(ev.Name, fc, true); err != nil {
			t.log.Warn("cannot tail created file", "path", ev.Name, "error", err)
			return
		}
		t.mu.Lock()
		tf := t.files[ev.Name]
		t.mu.Unlock()
		t.read(ev.Name, tf)

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		t.mu.Lock()
		if tf, ok := t.files[ev.Name]; ok {
			tf.f.Close()
			delete(t.files, ev.Name)
			metrics.FilesWatched.Dec()
		}
		t.mu.Unlock()
	}
}

// match finds the file config covering path, if any.
func (t *Tailer) match(path string) (config.FileConfig, bool) {
	for _, fc := range t.configs {
		if fc.Path != "" && fc.Path == path {
			return fc, true
		}
		if fc.Glob != "" {
			if ok, _ := filepath.Match(fc.Glob, path); ok {
				return fc, true
			}
		}
	}
	return config.FileConfig{}, false
}

// open starts tailing path. fromStart forces offset zero; otherwise
// the stored offset is used, falling back to the end of the file so a
// first run does not re-ship history.
func (t *Tailer) open(path string, fc config.FileConfig, fromStart bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var off int64
	if !fromStart {
		stored, err := t.store.Get(context.Background(), path)
		if err != nil {
			t.log.Warn("failed to load stored offset", "path", path, "error", err)
		}
		info, statErr := f.Stat()
		switch {
		case statErr != nil:
			off = 0
		case stored > 0 && stored <= info.Size():
			off = stored
		default:
			off = info.Size()
		}
	}
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		f.Close()
		return err
	}

	t.mu.Lock()
	if old, ok := t.files[path]; ok {
		old.f.Close()
	} else {
		metrics.FilesWatched.Inc()
	}
	t.files[path] = &tailedFile{
		f:      f,
		reader: bufio.NewReader(f),
		offset: off,
		cfg:    fc,
	}
	t.mu.Unlock()
	return nil
}

// read drains complete lines appended to path and emits them.
func (t *Tailer) read(path string, tf *tailedFile) {
	if info, err := tf.f.Stat(); err == nil && info.Size() < tf.offset {
		// Truncated underneath us: start over from the top.
		if _, err := tf.f.Seek(0, io.SeekStart); err != nil {
			t.log.Warn("failed to rewind truncated file", "path", path, "error", err)
			return
		}
		tf.offset = 0
		tf.partial = nil
		tf.reader.Reset(tf.f)
	}

	for {
		chunk, err := tf.reader.ReadBytes('\n')
		if len(chunk) > 0 && err == nil {
			line := append(tf.partial, chunk...)
			tf.partial = nil
			tf.offset += int64(len(chunk))
			t.emit(path, tf, strings.TrimRight(string(line), "\r\n"))
			continue
		}
		if len(chunk) > 0 {
			// Incomplete line: keep it for the next write.
			tf.partial = append(tf.partial, chunk...)
			tf.offset += int64(len(chunk))
		}
		return
	}
}

func (t *Tailer) emit(path string, tf *tailedFile, line string) {
	ev := domain.NewEvent(t.hostname, path, line, tf.offset)
	ev.Type = tf.cfg.Type
	ev.Tags = tf.cfg.Tags
	metrics.LinesRead.WithLabelValues(path).Inc()

	select {
	case t.events <- ev:
	case <-t.done:
	}
}
